// Package env reads the build policy from the process environment.
package env

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Environment variables consulted by the reader.
const (
	VarProfile       = "PROFILE"
	VarOptLevel      = "OPT_LEVEL"
	VarOutDir        = "OUT_DIR"
	VarFeatureGPL    = "FFBUILD_FEATURE_GPL"
	VarFeatureX264   = "FFBUILD_FEATURE_X264"
	VarX264Dir       = "FFBUILD_X264_DIR"
	VarForceRebuild  = "FFBUILD_FORCE_REBUILD"
	VarForceCodegen  = "FFBUILD_FORCE_CODEGEN"
	VarFingerprint   = "FFBUILD_FINGERPRINT"
	VarEnvFile       = "FFBUILD_ENV_FILE"
	VarPkgConfigPath = "PKG_CONFIG_PATH"
)

// DefaultEnvFile is the dotenv file overlaid when FFBUILD_ENV_FILE is unset.
const DefaultEnvFile = ".env"

var featureVars = map[domain.FeatureFlag]string{
	domain.FeatureGPL:  VarFeatureGPL,
	domain.FeatureX264: VarFeatureX264,
}

var featureRootVars = map[domain.FeatureFlag]string{
	domain.FeatureX264: VarX264Dir,
}

var _ ports.PolicyReader = (*Reader)(nil)

// Snapshot is an immutable copy of environment variables.
type Snapshot map[string]string

// Capture builds a snapshot from KEY=VALUE entries as returned by os.Environ.
func Capture(environ []string) Snapshot {
	s := make(Snapshot, len(environ))
	for _, entry := range environ {
		if k, v, ok := strings.Cut(entry, "="); ok {
			s[k] = v
		}
	}
	return s
}

// Overlay returns a snapshot where values missing from s are taken from defaults.
// Values already present in s always win.
func (s Snapshot) Overlay(defaults map[string]string) Snapshot {
	out := make(Snapshot, len(s)+len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Lookup returns the value and whether it was set.
func (s Snapshot) Lookup(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// Reader derives a domain.BuildPolicy from a Snapshot.
type Reader struct {
	snapshot Snapshot
}

// NewReader creates a Reader over an existing snapshot.
func NewReader(snapshot Snapshot) *Reader {
	return &Reader{snapshot: snapshot}
}

// NewProcessReader snapshots the process environment, overlaid with the dotenv file in dir
// (or the file named by FFBUILD_ENV_FILE). A missing dotenv file is not an error.
func NewProcessReader(dir string) (*Reader, error) {
	snapshot := Capture(os.Environ())

	path := snapshot[VarEnvFile]
	if path == "" {
		path = filepath.Join(dir, DefaultEnvFile)
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewReader(snapshot), nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read env file"), "path", path)
	}

	return NewReader(snapshot.Overlay(values)), nil
}

// Read returns the build policy. The output directory is the only required variable;
// every other signal defaults to off.
func (r *Reader) Read() (domain.BuildPolicy, error) {
	outDir := strings.TrimSpace(r.snapshot[VarOutDir])
	if outDir == "" {
		return domain.BuildPolicy{}, zerr.With(zerr.Wrap(domain.ErrMissingOutDir, "cannot determine where to build"), "variable", VarOutDir)
	}

	policy := domain.BuildPolicy{
		Mode:          domain.ParseBuildMode(r.snapshot[VarProfile]),
		Features:      domain.NewFeatureSet(),
		FeatureRoots:  make(map[domain.FeatureFlag]string),
		ForceRebuild:  r.truthy(VarForceRebuild),
		ForceCodegen:  r.truthy(VarForceCodegen),
		Fingerprint:   r.truthy(VarFingerprint),
		OutDir:        outDir,
		PkgConfigPath: r.snapshot[VarPkgConfigPath],
	}

	if level, err := strconv.Atoi(strings.TrimSpace(r.snapshot[VarOptLevel])); err == nil {
		policy.OptLevel = level
		policy.OptLevelSet = true
	}

	for _, flag := range domain.AllFeatures {
		if r.truthy(featureVars[flag]) {
			policy.Features[flag] = struct{}{}
		}
		if v, ok := featureRootVars[flag]; ok {
			if root := strings.TrimSpace(r.snapshot[v]); root != "" {
				policy.FeatureRoots[flag] = root
			}
		}
	}

	return policy, nil
}

// truthy reports whether the variable is "1" or "true", ignoring case and whitespace.
func (r *Reader) truthy(key string) bool {
	v := strings.ToLower(strings.TrimSpace(r.snapshot[key]))
	return v == "1" || v == "true"
}
