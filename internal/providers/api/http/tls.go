package http

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"strings"

	"github.com/crmarques/connectorctl/config"
)

// buildTLSConfig returns nil when no api.tls block is set so the transport
// keeps Go's default verification.
func buildTLSConfig(tlsSettings *config.TLS) (*tls.Config, error) {
	if tlsSettings == nil {
		return nil, nil
	}

	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: tlsSettings.InsecureSkipVerify,
	}

	if caCertFile := strings.TrimSpace(tlsSettings.CACertFile); caCertFile != "" {
		caBytes, err := os.ReadFile(caCertFile)
		if err != nil {
			return nil, validationError("api.tls.ca-cert-file could not be read", err)
		}

		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		if ok := pool.AppendCertsFromPEM(caBytes); !ok {
			return nil, validationError("api.tls.ca-cert-file is not valid PEM", nil)
		}
		tlsConfig.RootCAs = pool
	}

	clientCertFile := strings.TrimSpace(tlsSettings.ClientCertFile)
	clientKeyFile := strings.TrimSpace(tlsSettings.ClientKeyFile)
	if (clientCertFile == "") != (clientKeyFile == "") {
		return nil, validationError("api.tls requires both client-cert-file and client-key-file", nil)
	}

	if clientCertFile != "" {
		certificate, err := tls.LoadX509KeyPair(clientCertFile, clientKeyFile)
		if err != nil {
			return nil, validationError("api.tls client certificate pair is invalid", err)
		}
		tlsConfig.Certificates = []tls.Certificate{certificate}
	}

	return tlsConfig, nil
}
