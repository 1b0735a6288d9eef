package cache

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ntentasd/motorsim/pkg/types"
)

const (
	valkeyPort = 6379
	// ReadingsTTL bounds how long a day's recent readings stay cached.
	ReadingsTTL = time.Hour
)

// ResolveValkeyAddrs prefers an explicit node list and falls back to
// resolving a headless service name.
func ResolveValkeyAddrs(nodes []string, service string) ([]string, error) {
	if len(nodes) > 0 {
		return nodes, nil
	}

	if service != "" {
		addrs, err := net.LookupHost(service)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", service, err)
		}
		out := make([]string, 0, len(addrs))
		for _, ip := range addrs {
			out = append(out, net.JoinHostPort(ip, strconv.Itoa(valkeyPort)))
		}
		return out, nil
	}

	return nil, fmt.Errorf("no Valkey discovery env provided (VALKEY_NODES or VALKEY_SERVICE)")
}

func ReadingsKey(motorID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("motor:%s:%s", motorID, day.UTC().Format(time.DateOnly))
}

func AggregateKey(motorID uuid.UUID, day time.Time, window string) string {
	return fmt.Sprintf("agg:%s:%s:%s", motorID, day.UTC().Format(time.DateOnly), window)
}

func SummaryKey(dataset string) string {
	return "summary:" + dataset
}

// member encodes an entry so that equal values at different times stay
// distinct inside a sorted set.
func member(e types.Entry) string {
	return strconv.FormatInt(e.Timestamp.UnixMilli(), 10) + ":" + strconv.FormatFloat(e.Value, 'f', -1, 64)
}

func parseMember(s string) (types.Entry, error) {
	ms, val, ok := strings.Cut(s, ":")
	if !ok {
		return types.Entry{}, fmt.Errorf("malformed member %q", s)
	}
	ts, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return types.Entry{}, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return types.Entry{}, fmt.Errorf("failed to parse value: %w", err)
	}
	return types.Entry{Timestamp: time.UnixMilli(ts).UTC(), Value: v}, nil
}
