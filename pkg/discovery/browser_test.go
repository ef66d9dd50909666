package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/enbility/zeroconf/v3"
	"github.com/stretchr/testify/assert"
)

func TestNewBrowserDefaults(t *testing.T) {
	b := NewBrowser(BrowserConfig{})
	assert.Equal(t, DefaultServiceType, b.config.ServiceType)
	assert.Equal(t, DefaultBrowseTimeout, b.config.BrowseTimeout)

	b = NewBrowser(BrowserConfig{ServiceType: "_telnet._tcp", BrowseTimeout: time.Second})
	assert.Equal(t, "_telnet._tcp", b.config.ServiceType)
	assert.Equal(t, time.Second, b.config.BrowseTimeout)
}

func TestEntryToReceiver(t *testing.T) {
	entry := &zeroconf.ServiceEntry{}
	entry.Instance = "VSX-923 1A2B3C"
	entry.HostName = "vsx-923.local."
	entry.Port = 8102
	entry.AddrIPv4 = []net.IP{net.ParseIP("192.0.2.10")}

	svc := entryToReceiver(entry)
	if assert.NotNil(t, svc) {
		assert.Equal(t, "VSX-923 1A2B3C", svc.InstanceName)
		assert.Equal(t, "vsx-923.local.", svc.Host)
		assert.Equal(t, uint16(8102), svc.Port)
		assert.Equal(t, []string{"192.0.2.10"}, svc.Addresses)
	}
}

func TestEntryToReceiverNoAddresses(t *testing.T) {
	entry := &zeroconf.ServiceEntry{}
	entry.Instance = "ghost"

	assert.Nil(t, entryToReceiver(entry))
}

func TestMergeAddresses(t *testing.T) {
	got := mergeAddresses(
		[]string{"192.0.2.10"},
		[]string{"192.0.2.10", "fe80::1"},
	)
	assert.Equal(t, []string{"192.0.2.10", "fe80::1"}, got)
}
