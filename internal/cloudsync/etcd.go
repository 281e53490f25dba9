package cloudsync

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/vovakirdan/netops/internal/config"
)

const defaultPrefix = "/netops/saves/"

// EtcdTransport stores one snapshot per namespace under a key prefix.
type EtcdTransport struct {
	client *clientv3.Client
	prefix string
}

// NewEtcdTransport dials the etcd cluster from the cloud sync configuration.
// The caller must call Close when finished.
func NewEtcdTransport(cfg config.CloudSyncConfig) (*EtcdTransport, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("cloudsync: no etcd endpoints configured")
	}
	timeout := time.Duration(cfg.DialTimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	client, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudsync: etcd dial: %w", err)
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &EtcdTransport{client: client, prefix: prefix}, nil
}

// Close releases the etcd client.
func (t *EtcdTransport) Close() error {
	return t.client.Close()
}

func (t *EtcdTransport) key(namespace string) string {
	if namespace == "" {
		namespace = "local"
	}
	return t.prefix + namespace
}

// Pull implements Transport.
func (t *EtcdTransport) Pull(ctx context.Context, namespace string) (*Snapshot, error) {
	k := t.key(namespace)
	resp, err := t.client.Get(ctx, k)
	if err != nil {
		return nil, fmt.Errorf("cloudsync: etcd get %q: %w", k, err)
	}
	if len(resp.Kvs) == 0 {
		return nil, nil
	}
	var snap Snapshot
	if err := json.Unmarshal(resp.Kvs[0].Value, &snap); err != nil {
		return nil, fmt.Errorf("cloudsync: unmarshal %q: %w", k, err)
	}
	snap.Revision = resp.Kvs[0].ModRevision
	return &snap, nil
}

// Push implements Transport. Writes are last-writer-wins; the never-regress
// policy is applied by the Syncer before anything is uploaded.
func (t *EtcdTransport) Push(ctx context.Context, namespace string, snap Snapshot) (int64, error) {
	k := t.key(namespace)
	data, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("cloudsync: marshal: %w", err)
	}
	resp, err := t.client.Put(ctx, k, string(data))
	if err != nil {
		return 0, fmt.Errorf("cloudsync: etcd put %q: %w", k, err)
	}
	return resp.Header.Revision, nil
}

// Namespaces lists every namespace with a remote snapshot.
func (t *EtcdTransport) Namespaces(ctx context.Context) ([]string, error) {
	resp, err := t.client.Get(ctx, t.prefix, clientv3.WithPrefix(), clientv3.WithKeysOnly())
	if err != nil {
		return nil, fmt.Errorf("cloudsync: etcd list %q: %w", t.prefix, err)
	}
	out := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		out = append(out, strings.TrimPrefix(string(kv.Key), t.prefix))
	}
	return out, nil
}

var _ Transport = (*EtcdTransport)(nil)
