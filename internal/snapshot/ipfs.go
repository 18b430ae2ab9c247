package snapshot

import (
	"fmt"
	"os"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"
)

// IPFSPublisher pins published snapshot files to an IPFS node reachable at
// a configured API address.
type IPFSPublisher struct {
	client  *shell.Shell
	gateway string
}

// NewIPFSPublisher dials api and verifies the node responds. Returns
// (nil, nil) when api is blank, signaling "IPFS publishing disabled"
// without treating that as an error.
func NewIPFSPublisher(api, gateway string) (*IPFSPublisher, error) {
	api = strings.TrimSpace(api)
	if api == "" {
		return nil, nil
	}

	s := shell.NewShell(normalizeIPFSAPI(api))
	s.SetTimeout(15 * time.Second)

	if _, err := s.ID(); err != nil {
		return nil, fmt.Errorf("snapshot: ipfs api unhealthy: %w", err)
	}

	return &IPFSPublisher{client: s, gateway: strings.TrimRight(gateway, "/")}, nil
}

// PublishFile adds the file at path to IPFS, pinned, and returns its CID.
// wantHash is the blake3 digest already recorded for this file in the
// manifest; PublishFile re-hashes the file immediately before upload and
// refuses to publish on a mismatch, since the manifest and the uploaded
// bytes must describe the same content even if something on disk changed
// between the write and the publish step.
func (p *IPFSPublisher) PublishFile(path, wantHash string) (string, error) {
	if p == nil || p.client == nil {
		return "", fmt.Errorf("snapshot: ipfs publisher not configured")
	}

	_, gotHash, err := HashFile(path)
	if err != nil {
		return "", fmt.Errorf("snapshot: rehash before publish: %w", err)
	}
	if gotHash != wantHash {
		return "", fmt.Errorf("snapshot: content changed before publish: manifest hash %s, file hash %s", wantHash, gotHash)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return p.client.Add(f, shell.Pin(true), shell.CidVersion(1), shell.RawLeaves(true))
}

// GatewayURL builds a browsable URL for cid, or "" if no gateway is set.
func (p *IPFSPublisher) GatewayURL(cid string) string {
	if p == nil || cid == "" || p.gateway == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s", p.gateway, cid)
}

// normalizeIPFSAPI accepts either a multiaddr ("/ip4/1.2.3.4/tcp/5001") or
// an http(s) URL and reduces both to the host:port go-ipfs-api expects.
func normalizeIPFSAPI(val string) string {
	trimmed := strings.TrimSpace(val)
	if strings.HasPrefix(trimmed, "/") {
		if hostPort := multiaddrToHostPort(trimmed); hostPort != "" {
			return hostPort
		}
	}
	trimmed = strings.TrimPrefix(trimmed, "http://")
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimSuffix(trimmed, "/api/v0")
	return strings.Trim(trimmed, "/")
}

func multiaddrToHostPort(addr string) string {
	parts := strings.Split(addr, "/")
	var host, port string
	for i := 0; i < len(parts); i++ {
		switch parts[i] {
		case "ip4", "ip6", "dns", "dns4", "dns6":
			if i+1 < len(parts) {
				host = parts[i+1]
				i++
			}
		case "tcp":
			if i+1 < len(parts) {
				port = parts[i+1]
				i++
			}
		}
	}
	if host != "" && port != "" {
		return fmt.Sprintf("%s:%s", host, port)
	}
	return ""
}
