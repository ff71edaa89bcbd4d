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
	"net"
	"sync"

	"github.com/miekg/dns"
)

const connPoolSize = 2

// Transport connects to a nameserver over a specific network and pools
// healthy connections for reuse.
type Transport interface {
	Dial(ctx context.Context, net string) (*dns.Conn, error)
	// Yield returns a healthy connection to the pool for reuse. Only call
	// this for connections that completed a request-response cycle; close
	// failed connections instead.
	Yield(conn *dns.Conn)
	SetTLSConfig(*tls.Config)
	// Close drains the connection pool and releases resources.
	Close()
}

// NewTransport creates a transport for the nameserver at addr (host:port).
func NewTransport(addr string) Transport {
	return &transportImpl{
		addr: addr,
		pool: make(chan *dns.Conn, connPoolSize),
	}
}

type transportImpl struct {
	tlsConfig *tls.Config
	addr      string
	mu        sync.Mutex // protects tlsConfig reads during concurrent Dial
	pool      chan *dns.Conn
}

// SetTLSConfig sets the TLS config; subsequent dials use tcp-tls.
func (t *transportImpl) SetTLSConfig(c *tls.Config) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tlsConfig = c
}

// Close drains pooled connections.
func (t *transportImpl) Close() {
	for {
		select {
		case conn := <-t.pool:
			_ = conn.Close()
		default:
			return
		}
	}
}

// Yield returns a connection to the pool, or closes it when the pool is
// full. UDP connections are always closed since they are cheap to create.
func (t *transportImpl) Yield(conn *dns.Conn) {
	if conn == nil {
		return
	}
	select {
	case t.pool <- conn:
	default:
		_ = conn.Close()
	}
}

// Dial returns a pooled connection if available, or creates a new one.
func (t *transportImpl) Dial(ctx context.Context, network string) (*dns.Conn, error) {
	t.mu.Lock()
	tlsCfg := t.tlsConfig
	t.mu.Unlock()

	if tlsCfg != nil {
		network = TCPTLS
	}

	if network == TCP || network == TCPTLS {
		select {
		case conn := <-t.pool:
			return conn, nil
		default:
			// pool empty, dial new
		}
	}

	d := &net.Dialer{Timeout: dialTimeout}
	conn := new(dns.Conn)
	var err error
	switch network {
	case TCPTLS:
		tlsDialer := &tls.Dialer{Config: tlsCfg, NetDialer: d}
		conn.Conn, err = tlsDialer.DialContext(ctx, "tcp", t.addr)
	case "":
		conn.Conn, err = d.DialContext(ctx, UDP, t.addr)
	default:
		conn.Conn, err = d.DialContext(ctx, network, t.addr)
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}
