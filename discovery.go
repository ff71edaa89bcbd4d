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
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	ot "github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Discoverer locates CalDAV and CardDAV endpoints for a mail domain
// following RFC 6764. It holds no per-call state: every Discover call plans,
// dispatches, selects and synthesizes from scratch, so results depend only
// on the answers received within the call's deadline.
type Discoverer struct {
	resolver     Resolver
	timeout      time.Duration
	pollInterval time.Duration
	secureOnly   bool
	checkCalDAV  bool
	checkCardDAV bool
	logger       *zap.Logger
	clock        clock.Clock
}

// New creates a Discoverer. Without WithResolver, a DNSResolver is built
// from the system resolver configuration; construction fails when no
// nameserver can be determined.
func New(opts ...Option) (*Discoverer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.timeout < minTimeout || cfg.timeout > maxTimeout {
		return nil, errors.Errorf("davdisco: timeout %s outside [%s, %s]", cfg.timeout, minTimeout, maxTimeout)
	}
	if cfg.pollInterval <= 0 {
		return nil, errors.New("davdisco: poll interval must be positive")
	}
	if cfg.resolver == nil {
		r, err := NewSystemResolver()
		if err != nil {
			return nil, err
		}
		cfg.resolver = r
	}
	return &Discoverer{
		resolver:     cfg.resolver,
		timeout:      cfg.timeout,
		pollInterval: cfg.pollInterval,
		secureOnly:   cfg.secureOnly,
		checkCalDAV:  cfg.checkCalDAV,
		checkCardDAV: cfg.checkCardDAV,
		logger:       cfg.logger,
		clock:        cfg.clock,
	}, nil
}

// Discover resolves the CalDAV/CardDAV endpoint URLs for the domain of
// email. The result maps each found service to its URL; a service is absent
// when no SRV record for it arrived before the deadline, which is not an
// error. ErrNoDomain, ErrNoServiceRequested and DispatchError abort the call
// with no partial result, as does cancellation of ctx.
func (d *Discoverer) Discover(ctx context.Context, email string, opts ...DiscoverOption) (map[Service]string, error) {
	domain, err := domainOf(email)
	if err != nil {
		return nil, err
	}

	ctx, finish := withDiscoverSpan(ctx, domain)
	defer finish()
	start := d.clock.Now()

	var call callConfig
	for _, opt := range opts {
		opt(&call)
	}
	checkCalDAV := resolveFlag(call.checkCalDAV, d.checkCalDAV)
	checkCardDAV := resolveFlag(call.checkCardDAV, d.checkCardDAV)
	secureOnly := resolveFlag(call.secureOnly, d.secureOnly)

	queries, err := planQueries(domain, checkCalDAV, checkCardDAV, secureOnly)
	if err != nil {
		return nil, err
	}

	records, err := d.collect(ctx, queries)
	if err != nil {
		return nil, err
	}

	result := make(map[Service]string)
	for _, svc := range requestedServices(checkCalDAV, checkCardDAV) {
		sel, ok := selectService(records, candidateOwners(svc, domain, secureOnly))
		if !ok {
			continue
		}
		// A target of "." advertises that the service is decidedly not
		// available for this domain (RFC 2782).
		if sel.srv.Target == "." || sel.srv.Target == "" {
			d.logger.Debug("service explicitly unavailable",
				zap.String("service", string(svc)), zap.String("owner", sel.owner))
			continue
		}
		result[svc] = buildURL(svc, sel)
	}

	DiscoveryDuration.Observe(d.clock.Since(start).Seconds())
	d.logger.Debug("discovery finished",
		zap.String("domain", domain), zap.Int("services", len(result)))
	return result, nil
}

// domainOf extracts the lower-cased domain from an email address. The
// address must contain exactly one "@" followed by a non-empty domain part.
func domainOf(email string) (string, error) {
	_, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" || strings.Contains(domain, "@") {
		return "", errors.Wrapf(ErrNoDomain, "%q", email)
	}
	return strings.ToLower(domain), nil
}

// withDiscoverSpan opens a child span for one discovery call when the
// context carries a span; otherwise it is a no-op.
func withDiscoverSpan(ctx context.Context, domain string) (context.Context, func()) {
	span := ot.SpanFromContext(ctx)
	if span == nil {
		return ctx, func() {}
	}
	childSpan := span.Tracer().StartSpan("discover", ot.ChildOf(span.Context()))
	childSpan.SetTag("dav.domain", domain)
	return ot.ContextWithSpan(ctx, childSpan), childSpan.Finish
}
