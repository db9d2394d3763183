// Package discovery finds seed members through etcd. Each member registers
// itself under <prefix>/<id> with a lease, and watches the prefix for
// members that join later. etcd only introduces members; their health is
// decided by the failure detector.
package discovery

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"go.etcd.io/etcd/api/v3/mvccpb"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/zap"

	"rumormill/internal/rumor"
)

// MinLeasePeriod is the shortest lease etcd accepts.
const MinLeasePeriod = 5 * time.Second

// Options configures Connect.
type Options struct {
	Endpoints   []string
	Prefix      string
	LeasePeriod time.Duration
	// MaxElapsed bounds connection and registration retries. Zero means
	// one minute.
	MaxElapsed time.Duration
	Logger     *zap.Logger
}

// Discovery is a registration in etcd.
type Discovery struct {
	client     *clientv3.Client
	prefix     string
	lease      time.Duration
	maxElapsed time.Duration
	log        *zap.Logger

	leaseID clientv3.LeaseID
}

// registration is the value stored for each member.
type registration struct {
	Address    string `json:"address"`
	SwimPort   int    `json:"swim_port"`
	GossipPort int    `json:"gossip_port"`
}

// EncodeMember returns the etcd value describing m.
func EncodeMember(m rumor.Member) ([]byte, error) {
	b, err := json.Marshal(registration{Address: m.Address, SwimPort: m.SwimPort, GossipPort: m.GossipPort})
	return b, errors.Wrap(err, "encode registration")
}

// DecodeMember turns an etcd value back into a member at incarnation 0, so
// the member's own announcements always win over it.
func DecodeMember(id string, value []byte) (rumor.Member, error) {
	var r registration
	if err := json.Unmarshal(value, &r); err != nil {
		return rumor.Member{}, errors.Wrapf(err, "decode registration of %s", id)
	}
	if r.Address == "" || r.SwimPort <= 0 {
		return rumor.Member{}, errors.Errorf("registration of %s has no swim address", id)
	}
	return rumor.Member{ID: id, Address: r.Address, SwimPort: r.SwimPort, GossipPort: r.GossipPort}, nil
}

func (d *Discovery) dir() string {
	return strings.TrimSuffix(d.prefix, "/") + "/"
}

func (d *Discovery) key(id string) string {
	return d.dir() + id
}

func (d *Discovery) retry(ctx context.Context, what string, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = d.maxElapsed
	return backoff.RetryNotify(op, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		d.log.Warn("etcd operation failed, retrying", zap.String("op", what), zap.Duration("wait", wait), zap.Error(err))
	})
}

// Connect dials etcd, retrying with exponential backoff.
func Connect(ctx context.Context, opts Options) (*Discovery, error) {
	if len(opts.Endpoints) == 0 {
		return nil, errors.New("no etcd endpoints")
	}
	if opts.Prefix == "" {
		return nil, errors.New("no etcd prefix")
	}
	if opts.LeasePeriod < MinLeasePeriod {
		opts.LeasePeriod = MinLeasePeriod
	}
	if opts.MaxElapsed <= 0 {
		opts.MaxElapsed = time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	d := &Discovery{
		prefix:     opts.Prefix,
		lease:      opts.LeasePeriod,
		maxElapsed: opts.MaxElapsed,
		log:        opts.Logger,
	}
	err := d.retry(ctx, "connect", func() error {
		client, err := clientv3.New(clientv3.Config{
			Endpoints:   opts.Endpoints,
			DialTimeout: 5 * time.Second,
			Context:     ctx,
			Logger:      opts.Logger.Named("etcd"),
		})
		if err != nil {
			return err
		}
		d.client = client
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect to etcd")
	}
	return d, nil
}

// Register publishes self under the prefix with a kept-alive lease.
func (d *Discovery) Register(ctx context.Context, self rumor.Member) error {
	value, err := EncodeMember(self)
	if err != nil {
		return err
	}
	err = d.retry(ctx, "register", func() error {
		lease, err := d.client.Lease.Grant(ctx, int64(d.lease/time.Second))
		if err != nil {
			return err
		}
		keepAlive, err := d.client.Lease.KeepAlive(ctx, lease.ID)
		if err != nil {
			return err
		}
		go func() {
			for range keepAlive {
			}
			d.log.Debug("etcd lease keep-alive stopped")
		}()
		if _, err := d.client.KV.Put(ctx, d.key(self.ID), string(value), clientv3.WithLease(lease.ID)); err != nil {
			return err
		}
		d.leaseID = lease.ID
		return nil
	})
	return errors.Wrap(err, "register in etcd")
}

// Seeds lists every registered member.
func (d *Discovery) Seeds(ctx context.Context) ([]rumor.Member, int64, error) {
	resp, err := d.client.KV.Get(ctx, d.dir(), clientv3.WithPrefix())
	if err != nil {
		return nil, 0, errors.Wrap(err, "list members")
	}
	var out []rumor.Member
	for _, kv := range resp.Kvs {
		m, err := DecodeMember(strings.TrimPrefix(string(kv.Key), d.dir()), kv.Value)
		if err != nil {
			d.log.Warn("skipping registration", zap.Error(err))
			continue
		}
		out = append(out, m)
	}
	return out, resp.Header.Revision, nil
}

// Watch calls join for every member registered after revision rev, until
// ctx is done. Deletions are ignored. A broken watch is re-established with
// backoff from the last revision seen.
func (d *Discovery) Watch(ctx context.Context, rev int64, join func(rumor.Member)) {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 0
	for ctx.Err() == nil {
		for resp := range d.client.Watcher.Watch(ctx, d.dir(), clientv3.WithPrefix(), clientv3.WithRev(rev+1)) {
			if err := resp.Err(); err != nil {
				d.log.Warn("etcd watch error", zap.Error(err))
				break
			}
			b.Reset()
			for _, ev := range resp.Events {
				if ev.Type != mvccpb.PUT {
					continue
				}
				m, err := DecodeMember(strings.TrimPrefix(string(ev.Kv.Key), d.dir()), ev.Kv.Value)
				if err != nil {
					d.log.Warn("skipping registration", zap.Error(err))
					continue
				}
				join(m)
			}
			rev = resp.Header.Revision
		}
		select {
		case <-ctx.Done():
		case <-time.After(b.NextBackOff()):
		}
	}
}

// Leave removes the registration and revokes its lease.
func (d *Discovery) Leave(ctx context.Context, id string) error {
	if _, err := d.client.KV.Delete(ctx, d.key(id)); err != nil {
		return errors.Wrap(err, "delete registration")
	}
	if d.leaseID != 0 {
		if _, err := d.client.Lease.Revoke(ctx, d.leaseID); err != nil {
			return errors.Wrap(err, "revoke lease")
		}
	}
	return nil
}

// Close closes the etcd client.
func (d *Discovery) Close() error {
	return d.client.Close()
}
