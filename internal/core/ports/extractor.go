package ports

import "context"

// Extractor unpacks source archives.
//
//go:generate mockgen -source=extractor.go -destination=mocks/mock_extractor.go -package=mocks
type Extractor interface {
	// Extract unpacks the archive into destDir, preserving its recorded directory structure.
	Extract(ctx context.Context, archivePath, destDir string) error
	// VerifyDigest checks the archive content against a hex digest.
	VerifyDigest(archivePath, digest string) error
}
