// Package discovery turns a CIDR block into a list of candidate hosts for
// the Dispatcher/Autodetect pipeline (reachability is not checked), the same gap
// detecttest.py papers over by hardcoding a handful of IPs. It PTR-resolves
// every host in the block concurrently with a worker pool, the same shape
// AuditGateway's subnet scan uses, substituting reverse DNS for port scanning.
package discovery

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"

	"github.com/alexpitcher/netline/internal/logging"
)

// Candidate is one host found on the subnet, with whatever hostname reverse
// DNS returned (empty if the PTR lookup failed or returned nothing).
type Candidate struct {
	IP       string
	Hostname string
}

// Options controls a Sweep.
type Options struct {
	// Servers is the list of DNS servers ("host" or "host:port") to query
	// for PTR records. Defaults to the system resolver when empty.
	Servers []string
	// Timeout bounds a single PTR lookup. Defaults to 2 seconds.
	Timeout time.Duration
	// Concurrency caps the number of in-flight lookups. Defaults to 50,
	// the same worker count AuditGateway's port scan uses.
	Concurrency int
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 2 * time.Second
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 50
	}
	return o
}

// Sweep expands cidr into its host addresses and PTR-resolves each one
// concurrently, returning every address paired with whatever hostname was
// found. A host with no PTR record is still returned, with Hostname empty,
// since a nameless address is still a valid Autodetect target.
func Sweep(ctx context.Context, cidr string, opts Options) ([]Candidate, error) {
	opts = opts.withDefaults()

	hosts, err := expandCIDR(cidr)
	if err != nil {
		return nil, fmt.Errorf("discovery: %w", err)
	}

	hostChan := make(chan string, len(hosts))
	resultChan := make(chan Candidate, len(hosts))

	var wg sync.WaitGroup
	for i := 0; i < opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for host := range hostChan {
				resultChan <- Candidate{IP: host, Hostname: resolvePTR(ctx, host, opts)}
			}
		}()
	}

	go func() {
		for _, h := range hosts {
			hostChan <- h
		}
		close(hostChan)
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	out := make([]Candidate, 0, len(hosts))
	for c := range resultChan {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IP < out[j].IP })

	logging.Infof("discovery: swept %s, %d hosts", cidr, len(out))
	return out, nil
}

// expandCIDR lists every host address in cidr, excluding the network and
// broadcast addresses for IPv4 blocks of /30 or larger; a /31 or /32 keeps
// every address.
func expandCIDR(cidr string) ([]string, error) {
	ip, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, fmt.Errorf("invalid CIDR %q: %w", cidr, err)
	}

	var hosts []string
	for cur := ip.Mask(ipnet.Mask); ipnet.Contains(cur); incIP(cur) {
		hosts = append(hosts, cur.String())
	}

	ones, bits := ipnet.Mask.Size()
	if bits == 32 && bits-ones >= 2 && len(hosts) > 2 {
		hosts = hosts[1 : len(hosts)-1] // drop network and broadcast addresses
	}
	return hosts, nil
}

func incIP(ip net.IP) {
	for i := len(ip) - 1; i >= 0; i-- {
		ip[i]++
		if ip[i] != 0 {
			return
		}
	}
}

// resolvePTR queries every configured server in turn (or the system
// resolver, with none configured) and returns the first hostname found.
func resolvePTR(ctx context.Context, host string, opts Options) string {
	if len(opts.Servers) == 0 {
		names, err := net.DefaultResolver.LookupAddr(ctx, host)
		if err != nil || len(names) == 0 {
			return ""
		}
		return strings.TrimSuffix(names[0], ".")
	}

	reverse, err := dns.ReverseAddr(host)
	if err != nil {
		return ""
	}

	client := &dns.Client{Timeout: opts.Timeout}
	msg := &dns.Msg{}
	msg.SetQuestion(reverse, dns.TypePTR)

	for _, server := range opts.Servers {
		serverAddr := server
		if !strings.Contains(serverAddr, ":") {
			serverAddr += ":53"
		}
		resp, _, err := client.ExchangeContext(ctx, msg, serverAddr)
		if err != nil || resp == nil {
			continue
		}
		for _, ans := range resp.Answer {
			if ptr, ok := ans.(*dns.PTR); ok {
				return strings.TrimSuffix(ptr.Ptr, ".")
			}
		}
	}
	return ""
}
