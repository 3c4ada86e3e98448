// Package tzdist fetches bundles of compiled TZif zone files over
// HTTP.
//
// A bundle is a gzip-compressed tar archive of files produced by
// zic(8), optionally carrying a "version" entry that names the tzdb
// release it was compiled from. Mirrors serve bundles with ETags;
// callers are advised to store the tag returned by Fetch and pass it
// to subsequent calls so an unchanged bundle costs a single
// conditional request.
package tzdist

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/wallclock/zoned/tzif"
	"github.com/wallclock/zoned/zone"
)

// Bundle is an unpacked set of compiled zone files.
type Bundle struct {
	// Version names the tzdb release the bundle was compiled from,
	// for example "2025b". It is empty when the archive carries no
	// version entry.
	Version string

	// Zones maps zone names such as "Europe/Berlin" to raw TZif
	// file contents.
	Zones map[string][]byte
}

// ErrUnknownZone reports a name the bundle does not carry.
var ErrUnknownZone = errors.New("zone not in bundle")

// Zone decodes the named zone from the bundle.
func (b *Bundle) Zone(name string) (zone.Zone, error) {
	raw, ok := b.Zones[name]
	if !ok {
		return zone.Zone{}, fmt.Errorf("%w: %s", ErrUnknownZone, name)
	}
	f, err := tzif.DecodeBytes(raw)
	if err != nil {
		return zone.Zone{}, fmt.Errorf("decode %s: %w", name, err)
	}
	z, err := zone.FromTZif(f)
	if err != nil {
		return zone.Zone{}, fmt.Errorf("decode %s: %w", name, err)
	}
	return z, nil
}

// Names returns the bundle's zone names, sorted.
func (b *Bundle) Names() []string {
	names := make([]string, 0, len(b.Zones))
	for name := range b.Zones {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Client fetches bundles from a mirror. BaseURL must be set; the
// other fields are optional.
type Client struct {
	// BaseURL is the root the bundle paths passed to Fetch and
	// Download are resolved against.
	BaseURL string

	// HTTPClient is used for requests; nil means
	// http.DefaultClient. A fake http.RoundTripper here keeps
	// network calls out of tests. Timeouts can be set on the client
	// or through the context passed to Fetch.
	HTTPClient *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

const (
	// versionFilename is the archive entry naming the tzdb release.
	versionFilename = "version"
	emptyEtag       = ""
)

// Fetch downloads and unpacks the bundle at path below BaseURL.
//
// If the server responds 304 Not Modified for the given etag, the
// returned Bundle and error are both nil and the etag comes back
// unchanged. On error the returned etag is empty.
func (c *Client) Fetch(ctx context.Context, path, etag string) (*Bundle, string, error) {
	r, newEtag, err := c.Download(ctx, path, etag)
	if err != nil {
		return nil, emptyEtag, err
	}
	if r == nil {
		return nil, etag, nil // Not modified.
	}
	defer func() {
		// Drain and close so the connection can be reused.
		_, _ = io.Copy(io.Discard, r)
		_ = r.Close()
	}()

	bundle, err := ReadBundle(r)
	if err != nil {
		return nil, emptyEtag, err
	}
	return bundle, newEtag, nil
}

// Download performs the conditional GET for path below BaseURL and
// returns the raw body.
//
// On 304 Not Modified the returned io.ReadCloser and error are both
// nil and the etag comes back unchanged. Otherwise the caller owns
// the body and must read it fully and close it. Statuses other than
// 200 and 304 are errors.
func (c *Client) Download(ctx context.Context, path, etag string) (io.ReadCloser, string, error) {
	if c.BaseURL == "" {
		return nil, emptyEtag, errors.New("no base URL configured")
	}
	u, err := url.JoinPath(c.BaseURL, path)
	if err != nil {
		return nil, emptyEtag, fmt.Errorf("join URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, emptyEtag, fmt.Errorf("create request for %q: %w", u, err)
	}
	if etag != emptyEtag {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, emptyEtag, fmt.Errorf("GET %q: %w", u, err)
	}
	if resp.StatusCode != http.StatusOK {
		// Some servers send bodies with error statuses; drain
		// before closing so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		if resp.StatusCode == http.StatusNotModified {
			return nil, etag, nil
		}
		return nil, emptyEtag, fmt.Errorf("GET %q: unexpected status: %s", u, resp.Status)
	}

	// Caller takes over the body.
	return resp.Body, resp.Header.Get("Etag"), nil
}

// ReadBundle unpacks a gzip-compressed tar archive of compiled zone
// files.
//
// Regular entries that start with the TZif magic become zones; the
// optional version entry fills Bundle.Version; everything else
// (READMEs, leap second lists, directories, links) is skipped. A
// leading "zoneinfo/" path element is stripped from zone names.
func ReadBundle(r io.Reader) (*Bundle, error) {
	gunzip, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("read gzip: %w", err)
	}
	tr := tar.NewReader(gunzip)

	bundle := Bundle{Zones: make(map[string][]byte)}
	magic := make([]byte, len(tzif.Magic))
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read archive: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		name := strings.TrimPrefix(header.Name, "./")
		name = strings.TrimPrefix(name, "zoneinfo/")
		if name == versionFilename {
			raw, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("read version entry: %w", err)
			}
			bundle.Version = strings.TrimSpace(string(raw))
			continue
		}

		if header.Size < int64(len(magic)) {
			// Too small to hold the magic.
			continue
		}
		if _, err := io.ReadFull(tr, magic); err != nil {
			return nil, fmt.Errorf("read magic of %q: %w", header.Name, err)
		}
		if !bytes.Equal(magic, tzif.Magic[:]) {
			continue // not a compiled zone
		}

		data := make([]byte, header.Size)
		copy(data, magic)
		if _, err := io.ReadFull(tr, data[len(magic):]); err != nil {
			return nil, fmt.Errorf("read rest of %q: %w", header.Name, err)
		}
		bundle.Zones[name] = data
	}

	if len(bundle.Zones) == 0 {
		return nil, errors.New("no zone files in archive")
	}
	return &bundle, nil
}
