package main

import (
	"net"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"lectern/internal/config"
)

type commandContext struct {
	serverFlag *string
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(serverFlag, configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		serverFlag: serverFlag,
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// serverBase resolves the daemon base URL: the --api flag wins, then the
// configured bind address with wildcard hosts rewritten to loopback.
func (c *commandContext) serverBase() string {
	if c.serverFlag != nil {
		if trimmed := strings.TrimSpace(*c.serverFlag); trimmed != "" {
			return strings.TrimRight(trimmed, "/")
		}
	}

	bind := "127.0.0.1:8080"
	if cfg, err := c.ensureConfig(); err == nil && cfg != nil {
		bind = cfg.API.Bind
	}
	host, port, err := net.SplitHostPort(bind)
	if err != nil {
		return "http://" + bind
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func (c *commandContext) client() *apiClient {
	return newAPIClient(c.serverBase())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
