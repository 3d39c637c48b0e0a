package fetch

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/reusedev/imagine/internal/modules/storage/local"
)

var (
	ErrInvalidURL       = errors.New("invalid url")
	ErrConnectionFailed = errors.New("connection failed")
	ErrTLSVerification  = errors.New("tls certificate verification failed")
	ErrDownloadFailed   = errors.New("download failed")
	ErrFilesystem       = local.ErrFilesystem
)

// Classify wraps a transport error with the matching sentinel. Errors that
// already carry one are returned as they are.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrInvalidURL, ErrConnectionFailed, ErrTLSVerification, ErrDownloadFailed, ErrFilesystem} {
		if errors.Is(err, known) {
			return err
		}
	}
	if isCertificateError(err) {
		return fmt.Errorf("%w: %w", ErrTLSVerification, err)
	}
	// Everything else, including a peer answering the TLS hello with plain
	// HTTP (http.ErrSchemeMismatch), counts as a connection failure.
	return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
}

func isCertificateError(err error) bool {
	var (
		verifyErr   *tls.CertificateVerificationError
		authErr     x509.UnknownAuthorityError
		hostErr     x509.HostnameError
		invalidErr  x509.CertificateInvalidError
		constrained x509.ConstraintViolationError
	)
	return errors.As(err, &verifyErr) ||
		errors.As(err, &authErr) ||
		errors.As(err, &hostErr) ||
		errors.As(err, &invalidErr) ||
		errors.As(err, &constrained)
}
