package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spracknow-droid/PO-Progress-Status/internal/config"
	"github.com/spracknow-droid/PO-Progress-Status/internal/logger"
	"github.com/spracknow-droid/PO-Progress-Status/internal/server"
	"github.com/spracknow-droid/PO-Progress-Status/internal/util"
)

type serveOptions struct {
	configPath string
	port       int
	dev        bool
	noBrowser  bool
}

func bindServeFlags(cmd *cobra.Command, opts *serveOptions) {
	cmd.Flags().StringVar(&opts.configPath, "config", "", "配置文件路径（默认：可执行文件同目录下的 config.toml）")
	cmd.Flags().IntVar(&opts.port, "port", 0, "服务端口（仅当 config.toml 未显式配置 port 时生效）")
	cmd.Flags().BoolVar(&opts.dev, "dev", false, "开发模式")
	cmd.Flags().BoolVar(&opts.noBrowser, "no-browser", false, "启动后不自动打开浏览器")
}

func serveCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 Web 服务",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	bindServeFlags(cmd, opts)
	return cmd
}

// loadServeConfig 加载配置并应用命令行覆盖
func loadServeConfig(opts *serveOptions) (*config.AppConfig, config.LoadConfigInfo, error) {
	cfg, info, err := config.LoadConfigWithInfo(opts.configPath)
	if err != nil {
		return nil, info, fmt.Errorf("load config %s: %w", info.Path, err)
	}

	if opts.port > 0 && !info.PortSpecified {
		cfg.Server.Port = opts.port
	}
	if opts.dev {
		cfg.Server.DevMode = true
	}
	if opts.noBrowser {
		cfg.Server.OpenBrowser = false
	}
	if err := config.Validate(cfg); err != nil {
		return nil, info, err
	}
	return cfg, info, nil
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cfg, info, err := loadServeConfig(opts)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if cfg.Server.DevMode {
		level = "debug"
	}
	logger.Init(logger.Options{
		Level:      level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if info.FileFound {
		logger.Infof("config loaded from %s", info.Path)
	} else {
		logger.Infof("config file %s not found, using defaults", info.Path)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", addr)
		errCh <- srv.Run(addr)
	}()

	if cfg.Server.OpenBrowser && !cfg.Server.DevMode {
		if err := util.OpenBrowserWithFallback(url); err != nil {
			logger.Warnf("open browser failed, visit %s manually: %v", url, err)
		}
	} else {
		logger.Infof("visit %s", url)
	}

	select {
	case err := <-errCh:
		if err != nil {
			srv.Shutdown(context.Background())
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
	}

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
