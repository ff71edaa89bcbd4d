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
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/miekg/dns"
	"github.com/pkg/errors"
	"github.com/quic-go/quic-go/http3"
)

// dohMaxResponseSize is the maximum DNS response body read over DoH
// (64 KiB). Prevents a malicious server from forcing unbounded allocation.
const dohMaxResponseSize = 64 * 1024

// dohContentType is the MIME type for DNS wire-format messages (RFC 8484 §6).
const dohContentType = "application/dns-message"

// DoHResolver issues queries over DNS-over-HTTPS (RFC 8484) using HTTP POST
// with the application/dns-message content type.
type DoHResolver struct {
	endpoint   string // full URL, e.g. "https://dns.google/dns-query"
	netType    string // DOH or DOH3
	httpClient *http.Client
}

// NewDoHResolver creates a DoH resolver for the given endpoint URL (e.g.
// "https://dns.google/dns-query") on an HTTP/2-capable pooled transport.
func NewDoHResolver(endpoint string) *DoHResolver {
	return newDoHResolverWithTLS(endpoint, nil)
}

// newDoHResolverWithTLS creates a DoH resolver with an optional TLS
// configuration override.
func newDoHResolverWithTLS(endpoint string, tlsConfig *tls.Config) *DoHResolver {
	return &DoHResolver{
		endpoint:   endpoint,
		netType:    DOH,
		httpClient: newHTTP2Client(tlsConfig),
	}
}

// NewDoH3Resolver creates a DoH resolver using an HTTP/3 (QUIC) transport.
// RFC 8484 at the application layer, RFC 9114 on the wire.
func NewDoH3Resolver(endpoint string) *DoHResolver {
	return &DoHResolver{
		endpoint:   endpoint,
		netType:    DOH3,
		httpClient: newHTTP3Client(nil),
	}
}

// newHTTP2Client creates an http.Client backed by an HTTP/2-capable
// transport. The TLS config is cloned defensively.
func newHTTP2Client(tlsConfig *tls.Config) *http.Client {
	if tlsConfig == nil {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	} else {
		tlsConfig = tlsConfig.Clone()
	}
	tr := &http.Transport{
		TLSClientConfig:     tlsConfig,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        connPoolSize,
		MaxIdleConnsPerHost: connPoolSize,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout: dialTimeout,
		}).DialContext,
	}
	return &http.Client{
		Transport: tr,
		Timeout:   readTimeout + dialTimeout,
	}
}

// newHTTP3Client creates an http.Client on an HTTP/3 QUIC transport. QUIC
// mandates TLS 1.3 minimum.
func newHTTP3Client(tlsConfig *tls.Config) *http.Client {
	if tlsConfig == nil {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS13}
	} else {
		tlsConfig = tlsConfig.Clone()
		if tlsConfig.MinVersion < tls.VersionTLS13 {
			tlsConfig.MinVersion = tls.VersionTLS13
		}
	}
	return &http.Client{
		Transport: &http3.Transport{TLSClientConfig: tlsConfig},
		Timeout:   readTimeout + dialTimeout,
	}
}

// Net returns the network type of the resolver.
func (r *DoHResolver) Net() string {
	return r.netType
}

// Endpoint returns the DoH server URL.
func (r *DoHResolver) Endpoint() string {
	return r.endpoint
}

// Close releases idle connections held by the HTTP transport.
func (r *DoHResolver) Close() error {
	r.httpClient.CloseIdleConnections()
	return nil
}

// SendQuery issues one query over HTTPS and returns its in-flight handle.
func (r *DoHResolver) SendQuery(owner string, qtype uint16) (Pending, error) {
	if _, ok := dns.IsDomainName(owner); !ok {
		return nil, errors.Errorf("invalid owner name %q", owner)
	}
	req := new(dns.Msg)
	req.SetQuestion(dns.Fqdn(owner), qtype)

	p := newPending()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout+readTimeout)
		defer cancel()
		msg, err := dohRoundTrip(ctx, r.httpClient, r.endpoint, req)
		p.complete(recordsFromMsg(msg), err)
	}()
	return p, nil
}

// dohRoundTrip performs one DNS-over-HTTPS round trip: pack to wire format,
// POST, validate, unpack. Shared by the HTTP/2 and HTTP/3 flavors.
func dohRoundTrip(ctx context.Context, httpClient *http.Client, endpoint string, req *dns.Msg) (*dns.Msg, error) {
	msg, err := req.Pack()
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack DNS request for DoH")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(msg))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create DoH HTTP request")
	}
	httpReq.Header.Set("Content-Type", dohContentType)
	httpReq.Header.Set("Accept", dohContentType)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "DoH HTTP request failed")
	}
	defer func() {
		// Drain remaining body bytes so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("DoH server returned HTTP %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != dohContentType {
		return nil, errors.Errorf("DoH server returned unexpected content-type %q", ct)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, dohMaxResponseSize))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read DoH response body")
	}

	ret := new(dns.Msg)
	if err = ret.Unpack(body); err != nil {
		return nil, errors.Wrap(err, "failed to unpack DoH DNS response")
	}
	return ret, nil
}
