// Package main provides the fstd2nc inspection HTTP server.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"go.ngs.io/fstd2nc/internal/adapter/store/rawfile"
	"go.ngs.io/fstd2nc/internal/config"
	httpHandler "go.ngs.io/fstd2nc/internal/http"
	"go.ngs.io/fstd2nc/internal/logging"
	"go.ngs.io/fstd2nc/internal/usecase"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	configFile := flag.String("config", "", "Config file (yaml, toml or json)")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("fstd2nc-server version %s\n", version)
		return
	}

	// Load configuration from defaults, file and environment.
	v, err := config.New(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(logrus.Fields{
		"port":     cfg.Port,
		"data_dir": cfg.DataDir,
		"workers":  cfg.Workers,
		"latlon":   cfg.ProjectLatLon,
	}).Info("Starting fstd2nc server")

	// Initialize use cases.
	assembleUC := usecase.NewAssembleUseCase(rawfile.NewStore(cfg.VerifyChecksums), log)
	datasetUC := usecase.NewDatasetUseCase(assembleUC, cfg.DataDir, cfg.Workers, cfg.ProjectLatLon)

	// Setup router.
	router := httpHandler.SetupRouter(datasetUC, cfg.CORSAllowedOrigins, log)

	// Start server.
	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Infof("Server listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("fstd2nc server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  fstd2nc-server [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println("  -config FILE   Read settings from FILE")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  DATA_DIR                Directory of record files (default: ./data)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println("  WORKERS                 Parallel group decoders (default: number of CPUs)")
	fmt.Println("  PROJECT_LATLON          Derive latitude/longitude for polar grids (default: false)")
	fmt.Println("  VERIFY_CHECKSUMS        Verify payload checksums (default: true)")
	fmt.Println("  LOG_LEVEL               debug, info, warn or error (default: info)")
	fmt.Println("  LOG_FORMAT              text or json (default: text)")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /health                                   Health check")
	fmt.Println("  GET /v1/files/:file/variables                 List assembled variables")
	fmt.Println("  GET /v1/files/:file/variables/:name           Describe one variable")
	fmt.Println("  GET /v1/files/:file/variables/:name/sample    Bilinear sample at lat/lon")
	fmt.Println()
}
