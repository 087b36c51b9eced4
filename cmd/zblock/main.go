package main

import (
	"bytes"
	"context"
	"os"
	"time"

	"github.com/iamNilotpal/zblock"
	"github.com/iamNilotpal/zblock/config"
	"github.com/iamNilotpal/zblock/pkg/errors"
	"github.com/iamNilotpal/zblock/pkg/levels"
	"github.com/iamNilotpal/zblock/pkg/logger"
	"github.com/iamNilotpal/zblock/pkg/system"
)

func main() {
	logger := logger.New("zblock")
	defer logger.Sync()

	logger.Info("starting zblock demo")

	cfg := config.DefaultConfig()
	if len(os.Args) > 2 {
		loaded, err := config.LoadConfig(os.Args[2])
		if err != nil {
			logger.Infow("load config error", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if err := zblock.Init(cfg, logger); err != nil {
		if errors.IsValidationError(err) {
			err := errors.AsValidationError(err)
			logger.Infow("init error", "field", err.Field, "value", err.Value, "error", err.Err)
		} else {
			logger.Infow("init error", "error", err)
		}
		os.Exit(1)
	}

	level, err := levels.ParseLevel(cfg.Level)
	if err != nil {
		logger.Infow("invalid level", "level", cfg.Level, "error", err)
		os.Exit(1)
	}

	src := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog\n"), 512)
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			logger.Infow("read input error", "error", err)
			os.Exit(1)
		}
		src = data
	}

	for offset := 0; offset < len(src); offset += cfg.BlockSize {
		end := offset + cfg.BlockSize
		if end > len(src) {
			end = len(src)
		}
		block := src[offset:end]

		dst := make([]byte, len(block))
		written := zblock.Compress(dst, block, level)
		if written == len(block) {
			logger.Infow("block stored raw", "offset", offset, "size", len(block))
			continue
		}

		stored, err := zblock.GetLevel(dst[:written])
		if err != nil {
			logger.Infow("get level error", "error", err)
			os.Exit(1)
		}

		out := make([]byte, len(block))
		if err := zblock.Decompress(out, dst[:written]); err != nil {
			logger.Infow("decompress error", "error", err)
			os.Exit(1)
		}

		if !bytes.Equal(out, block) {
			logger.Infow("round trip mismatch", "offset", offset)
			os.Exit(1)
		}

		logger.Infow(
			"block compressed",
			"offset", offset, "size", len(block), "compressed", written, "level", stored.String(),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := system.Teardown(ctx, func(context.Context) error { return zblock.Fini() }); err != nil {
		logger.Infow("error shutting down", "error", err)
	}
}
