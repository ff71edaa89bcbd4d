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
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// Option configures a Discoverer at construction time.
type Option func(*config)

// config holds construction-time configuration.
type config struct {
	timeout      time.Duration
	pollInterval time.Duration
	secureOnly   bool
	checkCalDAV  bool
	checkCardDAV bool
	resolver     Resolver
	logger       *zap.Logger
	clock        clock.Clock
}

// defaultConfig returns the default Discoverer configuration.
func defaultConfig() *config {
	return &config{
		timeout:      defaultTimeout,
		pollInterval: defaultPollInterval,
		checkCalDAV:  true,
		checkCardDAV: true,
		logger:       zap.NewNop(),
		clock:        clock.New(),
	}
}

// WithTimeout sets the wall-clock budget for the DNS answers of one Discover
// call (default: 5s). The timeout must lie within [100ms, 5m].
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithPollInterval sets the readiness poll granularity of the answer
// collector (default: 100ms).
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		c.pollInterval = d
	}
}

// WithSecureOnly restricts lookups to the TLS service names (default:
// false). Insecure owner names are then never queried, so a domain that only
// advertises plaintext endpoints yields no result for the service.
func WithSecureOnly(secureOnly bool) Option {
	return func(c *config) {
		c.secureOnly = secureOnly
	}
}

// WithCalDAV sets the default for the CalDAV check (default: true).
func WithCalDAV(check bool) Option {
	return func(c *config) {
		c.checkCalDAV = check
	}
}

// WithCardDAV sets the default for the CardDAV check (default: true).
func WithCardDAV(check bool) Option {
	return func(c *config) {
		c.checkCardDAV = check
	}
}

// WithResolver sets the DNS resolver. Without this option New builds a
// DNSResolver from the system resolver configuration.
func WithResolver(r Resolver) Option {
	return func(c *config) {
		c.resolver = r
	}
}

// WithLogger sets the logger for debug-level dispatch and readiness events
// (default: no logging).
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock injects the clock driving the deadline and the poll loop.
// Intended for tests.
func WithClock(clk clock.Clock) Option {
	return func(c *config) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// DiscoverOption overrides one Discoverer default for a single Discover
// call.
type DiscoverOption func(*callConfig)

// callConfig holds per-call overrides; a nil field means "use the instance
// default".
type callConfig struct {
	checkCalDAV  *bool
	checkCardDAV *bool
	secureOnly   *bool
}

// CheckCalDAV overrides the CalDAV feature flag for one call.
func CheckCalDAV(check bool) DiscoverOption {
	return func(c *callConfig) {
		c.checkCalDAV = &check
	}
}

// CheckCardDAV overrides the CardDAV feature flag for one call.
func CheckCardDAV(check bool) DiscoverOption {
	return func(c *callConfig) {
		c.checkCardDAV = &check
	}
}

// SecureOnly overrides the secure-only flag for one call.
func SecureOnly(secureOnly bool) DiscoverOption {
	return func(c *callConfig) {
		c.secureOnly = &secureOnly
	}
}

// resolveFlag applies a per-call override over an instance default.
func resolveFlag(override *bool, def bool) bool {
	if override != nil {
		return *override
	}
	return def
}
