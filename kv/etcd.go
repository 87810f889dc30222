package kv

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// EtcdOptions configures the etcd-backed store.
type EtcdOptions struct {
	// Endpoints is the list of etcd cluster endpoints (e.g., "localhost:2379").
	Endpoints []string

	// DialTimeout is the maximum time to wait for connection establishment.
	// Defaults to 5s.
	DialTimeout time.Duration

	// TLS holds optional mutual-TLS settings for secure clusters.
	TLS *TLSConfig
}

// TLSConfig holds certificate paths for mutual TLS with etcd.
type TLSConfig struct {
	// Enabled turns TLS on. When false the other fields are ignored.
	Enabled bool

	// CertFile is the path to the client certificate.
	CertFile string

	// KeyFile is the path to the client private key.
	KeyFile string

	// CAFile is the path to the CA certificate used to verify the server.
	CAFile string
}

// clientConfig loads the client keypair and CA bundle from disk and builds
// the tls.Config for the etcd client. Returns nil when TLS is disabled.
func (c *TLSConfig) clientConfig() (*tls.Config, error) {
	if c == nil || !c.Enabled {
		return nil, nil
	}

	if c.CertFile == "" || c.KeyFile == "" || c.CAFile == "" {
		return nil, fmt.Errorf("etcd tls requires cert_file, key_file, and ca_file")
	}

	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load client keypair: %w", err)
	}

	caData, err := os.ReadFile(c.CAFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA bundle: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caData) {
		return nil, fmt.Errorf("no certificates parsed from CA bundle %s", c.CAFile)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      pool,
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// EtcdStore implements Store on top of an etcd cluster.
//
// Each maps to a single prefix range read, so iteration reflects one
// consistent revision of the keyspace.
//
// Thread-safety: all methods are safe for concurrent use.
type EtcdStore struct {
	client *clientv3.Client
}

// NewEtcdStore connects to the etcd cluster and verifies connectivity.
func NewEtcdStore(opts EtcdOptions) (*EtcdStore, error) {
	if len(opts.Endpoints) == 0 {
		return nil, fmt.Errorf("etcd endpoints cannot be empty")
	}

	dialTimeout := opts.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	clientCfg := clientv3.Config{
		Endpoints:   opts.Endpoints,
		DialTimeout: dialTimeout,
	}

	tlsConfig, err := opts.TLS.clientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to configure tls: %w", err)
	}
	clientCfg.TLS = tlsConfig

	cli, err := clientv3.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	// Verify connectivity with a quick health check
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	_, err = cli.Get(ctx, "health-check")
	if err != nil && err != context.DeadlineExceeded {
		cli.Close()
		return nil, fmt.Errorf("etcd health check failed: %w", err)
	}

	return &EtcdStore{client: cli}, nil
}

// Get retrieves the value stored under key.
func (s *EtcdStore) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.client.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	if len(resp.Kvs) == 0 {
		return nil, ErrNotFound
	}
	return resp.Kvs[0].Value, nil
}

// Put stores value under key.
func (s *EtcdStore) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}

	if _, err := s.client.Put(ctx, key, string(value)); err != nil {
		return fmt.Errorf("failed to put key %s: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key.
func (s *EtcdStore) Delete(ctx context.Context, key string) error {
	resp, err := s.client.Delete(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	if resp.Deleted == 0 {
		return ErrNotFound
	}
	return nil
}

// Each calls fn for every key with the given prefix, in key order.
func (s *EtcdStore) Each(ctx context.Context, prefix string, fn func(key string, value []byte) error) error {
	resp, err := s.client.Get(ctx, prefix, clientv3.WithPrefix(), clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend))
	if err != nil {
		return fmt.Errorf("failed to range prefix %s: %w", prefix, err)
	}

	for _, kvPair := range resp.Kvs {
		if err := fn(string(kvPair.Key), kvPair.Value); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the etcd connection.
func (s *EtcdStore) Close() error {
	return s.client.Close()
}
