// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/ffbuild/internal/adapters/archive"
	_ "go.trai.ch/ffbuild/internal/adapters/autotools"
	_ "go.trai.ch/ffbuild/internal/adapters/bindgen"
	_ "go.trai.ch/ffbuild/internal/adapters/cas"
	_ "go.trai.ch/ffbuild/internal/adapters/config"
	_ "go.trai.ch/ffbuild/internal/adapters/env"
	_ "go.trai.ch/ffbuild/internal/adapters/fs"
	_ "go.trai.ch/ffbuild/internal/adapters/logger"
	_ "go.trai.ch/ffbuild/internal/adapters/shell"
	_ "go.trai.ch/ffbuild/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/ffbuild/internal/app"
	_ "go.trai.ch/ffbuild/internal/engine/cache"
	_ "go.trai.ch/ffbuild/internal/engine/codegen"
	_ "go.trai.ch/ffbuild/internal/engine/native"
	_ "go.trai.ch/ffbuild/internal/engine/pipeline"
	_ "go.trai.ch/ffbuild/internal/engine/source"
)
