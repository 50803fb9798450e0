package postgres

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	ips []net.IP
	err error
}

func (r stubResolver) LookupIP(context.Context, string, string) ([]net.IP, error) {
	return r.ips, r.err
}

func TestLookupIPv4(t *testing.T) {
	ctx := context.Background()

	ip, err := lookupIPv4(ctx, stubResolver{}, "10.0.0.5")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", ip, "IPv4 literal se usa tal cual")

	_, err = lookupIPv4(ctx, stubResolver{}, "::1")
	assert.Error(t, err)

	ip, err = lookupIPv4(ctx, stubResolver{ips: []net.IP{net.ParseIP("2001:db8::1"), net.ParseIP("192.0.2.7")}}, "db.example")
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.7", ip)

	_, err = lookupIPv4(ctx, stubResolver{err: errors.New("nxdomain")}, "db.example")
	assert.Error(t, err)
}
