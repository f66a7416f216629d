// Command filecache-tool drives a localize.Manager from the command
// line, for manual operation and smoke-testing outside the worker
// process that normally owns a Manager.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/nodecache/filecache/config"
	"github.com/nodecache/filecache/localize"
	"github.com/nodecache/filecache/remotefs/orasfs"
)

type cliConfig struct {
	mode string

	configFile    string
	baseDir       string
	defaultFSHost string

	uri        string
	archive    bool
	timestamp  int64
	workDir    string
	cacheFiles string
	archives   string

	registryPlainHTTP bool
	registryAnonymous bool
	registryUserAgent string
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := parseFlags()

	if err := run(cfg, logger); err != nil {
		logger.Error("filecache-tool failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags() cliConfig {
	var c cliConfig
	flag.StringVar(&c.mode, "mode", "", "acquire|release|reclaim|purge|check-uris")
	flag.StringVar(&c.configFile, "config", "", "path to a JSON or key=value job configuration file")
	flag.StringVar(&c.baseDir, "basedir", "", "local cache base directory")
	flag.StringVar(&c.defaultFSHost, "default-fs-host", "", "default distributed filesystem host")

	flag.StringVar(&c.uri, "uri", "", "artifact URI, for acquire/release")
	flag.BoolVar(&c.archive, "archive", false, "treat the URI as an archive to extract, for acquire")
	flag.Int64Var(&c.timestamp, "timestamp", 0, "expected remote modification timestamp, for acquire")
	flag.StringVar(&c.workDir, "workdir", "", "task working directory for symlink projection, for acquire")

	flag.StringVar(&c.cacheFiles, "files", "", "comma-separated file URIs, for check-uris")
	flag.StringVar(&c.archives, "archives", "", "comma-separated archive URIs, for check-uris")

	flag.BoolVar(&c.registryPlainHTTP, "registry-plain-http", false, "use plain HTTP against the OCI registry backing remote artifacts")
	flag.BoolVar(&c.registryAnonymous, "registry-anonymous", false, "skip OCI registry authentication")
	flag.StringVar(&c.registryUserAgent, "registry-user-agent", "", "User-Agent sent to the OCI registry")

	flag.Parse()
	return c
}

func run(c cliConfig, logger *slog.Logger) error {
	if c.mode == "" {
		return errors.New("filecache-tool: -mode is required")
	}

	if c.mode == "check-uris" {
		ok := config.CheckURIs(splitCSV(c.cacheFiles), splitCSV(c.archives))
		if !ok {
			return errors.New("filecache-tool: check-uris failed: a URI has no fragment, or two fragments collide")
		}
		fmt.Println("ok")
		return nil
	}

	cfg, err := loadConfig(c.configFile, c.defaultFSHost)
	if err != nil {
		return err
	}

	if c.baseDir == "" {
		return errors.New("filecache-tool: -basedir is required")
	}

	opts := []orasfs.Option{}
	if c.registryPlainHTTP {
		opts = append(opts, orasfs.WithPlainHTTP(true))
	}
	if c.registryAnonymous {
		opts = append(opts, orasfs.WithAnonymous(true))
	}
	if c.registryUserAgent != "" {
		opts = append(opts, orasfs.WithUserAgent(c.registryUserAgent))
	}
	remote := orasfs.New(cfg.DefaultFSHost(), opts...)

	mgr := localize.New(c.baseDir, remote, localize.WithLogger(logger))
	ctx := context.Background()

	switch c.mode {
	case "acquire":
		if c.uri == "" {
			return errors.New("filecache-tool: -uri is required for acquire")
		}
		path, err := mgr.Acquire(ctx, cfg, c.uri, c.archive, c.timestamp, c.workDir)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil

	case "release":
		if c.uri == "" {
			return errors.New("filecache-tool: -uri is required for release")
		}
		return mgr.Release(c.uri, cfg)

	case "reclaim":
		return mgr.Reclaim()

	case "purge":
		mgr.Purge(ctx)
		return nil

	default:
		return fmt.Errorf("filecache-tool: unknown -mode %q", c.mode)
	}
}

// loadConfig reads a job configuration file as either JSON
// (`{"key": "value", ...}`) or newline-delimited `key=value` pairs,
// the two shapes the framework's string-keyed configuration is
// plausibly serialized as outside the worker process.
func loadConfig(path, defaultFSHost string) (*config.Accessor, error) {
	opts := []config.Option{}
	if defaultFSHost != "" {
		opts = append(opts, config.WithDefaultFSHost(defaultFSHost))
	}

	if path == "" {
		return config.New(opts...), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("filecache-tool: read config %s: %w", path, err)
	}

	var values map[string]string
	if json.Unmarshal(data, &values) == nil {
		return config.FromMap(values, opts...), nil
	}

	values = make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("filecache-tool: malformed config line %q", line)
		}
		values[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("filecache-tool: scan config %s: %w", path, err)
	}
	return config.FromMap(values, opts...), nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
