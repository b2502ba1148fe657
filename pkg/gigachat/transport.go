package gigachat

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"time"
)

type TransportConfig struct {
	// InsecureSkipVerify turns off certificate checks for the GigaChat hosts.
	// Their chain is issued by the Russian Trusted Root CA, which is missing
	// from most system stores. Ignored when CACertFile is set.
	InsecureSkipVerify bool
	CACertFile         string
	Timeout            time.Duration
}

// NewHTTPClient builds the client shared by the token and completion calls.
func NewHTTPClient(cfg TransportConfig) (*http.Client, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	switch {
	case cfg.CACertFile != "":
		pem, err := os.ReadFile(cfg.CACertFile)
		if err != nil {
			return nil, fmt.Errorf("reading CA certificate: %w", err)
		}

		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.CACertFile)
		}
		tlsConfig.RootCAs = pool

	case cfg.InsecureSkipVerify:
		tlsConfig.InsecureSkipVerify = true //nolint:gosec
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}, nil
}
