package linkplan

import (
	"io"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// New selects the emitter for the configured link format.
func New(cfg domain.LinkConfig, stdout io.Writer, logger ports.Logger) (ports.LinkEmitter, error) {
	switch cfg.Format {
	case domain.LinkFormatDirectives, "":
		return NewDirectiveEmitter(stdout), nil
	case domain.LinkFormatCgo:
		if cfg.CgoFile == "" {
			return nil, zerr.Wrap(domain.ErrInvalidLinkFormat, "cgo link format requires cgo_file")
		}
		return NewCgoEmitter(cfg.CgoFile, cfg.CgoPackage, logger), nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidLinkFormat, "unknown link format"), "format", string(cfg.Format))
	}
}
