// Copyright (c) 2026 the davdisco authors.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package davdisco

import (
	"context"
	"crypto/tls"
	"math"
	"net"
	"time"

	"github.com/miekg/dns"
	ot "github.com/opentracing/opentracing-go"
	otext "github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
)

var errMaxReadLoopExceeded = errors.New("maximum read loop iterations exceeded without matching response ID")

// DNSResolver issues queries over plain DNS (udp, tcp or tcp-tls) through a
// pooled connection transport. SendQuery returns immediately; the exchange
// runs on its own goroutine and completes the returned handle.
type DNSResolver struct {
	transport Transport
	addr      string
	net       string
}

// NewDNSResolver creates a resolver for the nameserver at addr (host:port)
// over the given network: UDP, TCP or TCPTLS.
func NewDNSResolver(addr, network string) *DNSResolver {
	return &DNSResolver{
		addr:      addr,
		net:       network,
		transport: NewTransport(addr),
	}
}

// NewSystemResolver builds a DNSResolver from the first nameserver listed in
// /etc/resolv.conf.
func NewSystemResolver() (*DNSResolver, error) {
	conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil {
		return nil, errors.Wrap(err, "davdisco: reading system resolver configuration")
	}
	if len(conf.Servers) == 0 {
		return nil, errors.New("davdisco: no nameservers configured")
	}
	return NewDNSResolver(net.JoinHostPort(conf.Servers[0], conf.Port), UDP), nil
}

// SetTLSConfig switches the resolver to tcp-tls with the given config.
func (r *DNSResolver) SetTLSConfig(cfg *tls.Config) {
	if cfg != nil {
		r.net = TCPTLS
	}
	r.transport.SetTLSConfig(cfg)
}

// Net returns the network type of the resolver.
func (r *DNSResolver) Net() string {
	return r.net
}

// Endpoint returns the nameserver address.
func (r *DNSResolver) Endpoint() string {
	return r.addr
}

// Close releases resources held by this resolver (drains the connection
// pool).
func (r *DNSResolver) Close() error {
	r.transport.Close()
	return nil
}

// SendQuery issues one query and returns its in-flight handle. The handle
// becomes ready when the exchange finishes; exchange failures after the send
// yield an empty answer rather than an error.
func (r *DNSResolver) SendQuery(owner string, qtype uint16) (Pending, error) {
	if _, ok := dns.IsDomainName(owner); !ok {
		return nil, errors.Errorf("invalid owner name %q", owner)
	}
	req := new(dns.Msg)
	req.SetQuestion(dns.Fqdn(owner), qtype)
	req.SetEdns0(dns.DefaultMsgSize, false)

	p := newPending()
	go func() {
		msg, err := r.exchange(req)
		p.complete(recordsFromMsg(msg), err)
	}()
	return p, nil
}

// exchange dials (or reuses) a connection and runs one query-response cycle
// on it. Healthy connections go back to the pool.
func (r *DNSResolver) exchange(req *dns.Msg) (*dns.Msg, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout+readTimeout)
	defer cancel()
	ctx, finish := withExchangeSpan(ctx, r.addr)
	defer finish()

	conn, err := r.transport.Dial(ctx, r.net)
	if err != nil {
		return nil, err
	}

	size := dns.MinMsgSize
	if opt := req.IsEdns0(); opt != nil {
		size = int(opt.UDPSize())
	}
	conn.UDPSize = clampUDPSize(size)

	msg, err := r.exchangeMsg(conn, req)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	r.transport.Yield(conn)
	return msg, nil
}

// exchangeMsg writes the DNS query and reads responses until a matching ID
// is found.
func (r *DNSResolver) exchangeMsg(conn *dns.Conn, req *dns.Msg) (*dns.Msg, error) {
	if err := conn.SetWriteDeadline(time.Now().Add(dialTimeout)); err != nil {
		return nil, err
	}
	if err := conn.WriteMsg(req); err != nil {
		return nil, err
	}
	if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		return nil, err
	}
	for range maxReadLoopIterations {
		ret, err := conn.ReadMsg()
		if err != nil {
			return nil, err
		}
		if ret.Id == req.Id {
			return ret, nil
		}
	}
	return nil, errMaxReadLoopExceeded
}

// clampUDPSize restricts the UDP buffer size to the valid DNS range
// [512, 65535].
func clampUDPSize(size int) uint16 {
	if size < dns.MinMsgSize {
		size = dns.MinMsgSize
	}
	if size > math.MaxUint16 {
		size = math.MaxUint16
	}
	return uint16(size)
}

// withExchangeSpan opens a child span for one wire exchange when the context
// carries a span.
func withExchangeSpan(ctx context.Context, addr string) (context.Context, func()) {
	span := ot.SpanFromContext(ctx)
	if span == nil {
		return ctx, func() {}
	}
	childSpan := span.Tracer().StartSpan("query", ot.ChildOf(span.Context()))
	otext.PeerAddress.Set(childSpan, addr)
	return ot.ContextWithSpan(ctx, childSpan), childSpan.Finish
}
