package discovery

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// Browsing defaults.
const (
	// DefaultServiceType is the mDNS service receivers advertise.
	DefaultServiceType = "_pioneer._tcp"

	// Domain is the mDNS domain to browse.
	Domain = "local."

	// DefaultBrowseTimeout bounds FindFirst.
	DefaultBrowseTimeout = 10 * time.Second
)

// ErrNoReceiverFound indicates the browse timeout elapsed with no
// receiver advertisement seen.
var ErrNoReceiverFound = errors.New("no receiver found")

// ReceiverService describes one receiver found on the LAN.
type ReceiverService struct {
	// InstanceName is the advertised instance ("VSX-923 ABC123").
	InstanceName string

	// Host is the advertised hostname.
	Host string

	// Port is the advertised control port.
	Port uint16

	// Addresses holds the resolved IP addresses as strings.
	Addresses []string
}

// BrowserConfig configures receiver browsing.
type BrowserConfig struct {
	// ServiceType overrides the mDNS service type to browse
	// (default: DefaultServiceType).
	ServiceType string

	// Interface restricts browsing to one network interface.
	// Empty means all interfaces.
	Interface string

	// BrowseTimeout bounds FindFirst (default: DefaultBrowseTimeout).
	BrowseTimeout time.Duration
}

// DefaultBrowserConfig returns the default browsing configuration.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		ServiceType:   DefaultServiceType,
		BrowseTimeout: DefaultBrowseTimeout,
	}
}

// Browser browses the LAN for receiver advertisements.
type Browser struct {
	config BrowserConfig
}

// NewBrowser creates a Browser with the given configuration.
func NewBrowser(config BrowserConfig) *Browser {
	if config.ServiceType == "" {
		config.ServiceType = DefaultServiceType
	}
	if config.BrowseTimeout <= 0 {
		config.BrowseTimeout = DefaultBrowseTimeout
	}
	return &Browser{config: config}
}

// Browse streams receiver advertisements until the context is
// cancelled. Services are aggregated by instance name, so a receiver
// visible on multiple interfaces is emitted once with its addresses
// merged.
func (b *Browser) Browse(ctx context.Context) (<-chan *ReceiverService, error) {
	out := make(chan *ReceiverService)
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	go func() {
		defer close(out)

		seen := make(map[string]*ReceiverService)
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				svc := entryToReceiver(entry)
				if svc == nil {
					continue
				}
				if existing, found := seen[svc.InstanceName]; found {
					existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
					continue
				}
				seen[svc.InstanceName] = svc
				select {
				case out <- svc:
				case <-ctx.Done():
					return
				}

			case <-removed:
				// Ephemeral port sessions do not care about service
				// departures; the engine notices unreachability itself.

			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, b.config.ServiceType, Domain, entries, removed, b.clientOptions()...)
	}()

	return out, nil
}

// FindFirst browses until the first receiver appears, bounded by the
// configured browse timeout.
func (b *Browser) FindFirst(ctx context.Context) (*ReceiverService, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.BrowseTimeout)
	defer cancel()

	services, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}

	select {
	case svc, ok := <-services:
		if !ok {
			return nil, ErrNoReceiverFound
		}
		return svc, nil
	case <-ctx.Done():
		return nil, ErrNoReceiverFound
	}
}

func (b *Browser) clientOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption
	if b.config.Interface != "" {
		iface, err := net.InterfaceByName(b.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}
	return opts
}

// entryToReceiver converts a zeroconf entry, dropping entries with no
// usable address.
func entryToReceiver(entry *zeroconf.ServiceEntry) *ReceiverService {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}
	if len(addrs) == 0 {
		return nil
	}

	return &ReceiverService{
		InstanceName: entry.Instance,
		Host:         entry.HostName,
		Port:         uint16(entry.Port),
		Addresses:    addrs,
	}
}

// mergeAddresses appends addresses not already present.
func mergeAddresses(existing, incoming []string) []string {
	known := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		known[a] = struct{}{}
	}
	for _, a := range incoming {
		if _, ok := known[a]; !ok {
			existing = append(existing, a)
		}
	}
	return existing
}
