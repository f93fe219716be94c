package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/atlanticdynamic/appmand/internal/server/busclient"
	"github.com/atlanticdynamic/appmand/internal/server/handlers"
	"github.com/atlanticdynamic/appmand/internal/server/packages"
)

// Interface guards
var (
	_ handlers.NativeClient = (*execNativeClient)(nil)
	_ handlers.WebClient    = (*webRuntimeClient)(nil)
	_ handlers.QmlClient    = (*qmlRuntimeClient)(nil)
)

// execNativeClient runs native apps as child processes of the daemon.
type execNativeClient struct {
	lookup packages.Lookup
}

func newExecNativeClient(lookup packages.Lookup) *execNativeClient {
	return &execNativeClient{lookup: lookup}
}

func (c *execNativeClient) Start(appID string, params map[string]any) (string, error) {
	pkg := c.lookup.GetAppByID(appID)
	if pkg == nil || pkg.Main == "" {
		return "", fmt.Errorf("no executable for app %s", appID)
	}

	cmd := exec.Command(pkg.Main)
	cmd.Env = os.Environ()
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start %s: %w", pkg.Main, err)
	}

	pid := cmd.Process.Pid
	// reap the child when it exits
	go func() { _ = cmd.Wait() }()
	return strconv.Itoa(pid), nil
}

func (c *execNativeClient) Terminate(pid string) error {
	id, err := strconv.Atoi(pid)
	if err != nil {
		return fmt.Errorf("invalid pid %q: %w", pid, err)
	}
	proc, err := os.FindProcess(id)
	if err != nil {
		return err
	}
	return proc.Signal(syscall.SIGTERM)
}

// webRuntimeClient drives the web application manager over the bus.
type webRuntimeClient struct {
	ctx    context.Context
	caller busclient.Caller
}

const webRuntimeService = "com.palm.webappmanager"

func newWebRuntimeClient(ctx context.Context, caller busclient.Caller) *webRuntimeClient {
	return &webRuntimeClient{ctx: ctx, caller: caller}
}

func (c *webRuntimeClient) LaunchApp(appID string, params map[string]any) (string, error) {
	reply, err := c.caller.Call(c.ctx, webRuntimeService, "launchApp", map[string]any{
		"appId":      appID,
		"parameters": params,
	})
	if err != nil {
		return "", err
	}
	webProcessID, _ := reply["webprocessid"].(string)
	return webProcessID, nil
}

func (c *webRuntimeClient) KillApp(appID string) error {
	_, err := c.caller.Call(c.ctx, webRuntimeService, "killApp", map[string]any{"appId": appID})
	return err
}

func (c *webRuntimeClient) PauseApp(appID string, params map[string]any) error {
	_, err := c.caller.Call(c.ctx, webRuntimeService, "pauseApp", map[string]any{
		"appId":      appID,
		"parameters": params,
	})
	return err
}

// qmlRuntimeClient drives the embedded-UI booster over the bus.
type qmlRuntimeClient struct {
	ctx    context.Context
	caller busclient.Caller
}

const qmlRuntimeService = "com.webos.booster"

func newQmlRuntimeClient(ctx context.Context, caller busclient.Caller) *qmlRuntimeClient {
	return &qmlRuntimeClient{ctx: ctx, caller: caller}
}

func (c *qmlRuntimeClient) LaunchApp(appID string, params map[string]any) (string, error) {
	reply, err := c.caller.Call(c.ctx, qmlRuntimeService, "launch", map[string]any{
		"appId":  appID,
		"params": params,
	})
	if err != nil {
		return "", err
	}
	pid, _ := reply["pid"].(string)
	return pid, nil
}

func (c *qmlRuntimeClient) KillApp(appID string) error {
	_, err := c.caller.Call(c.ctx, qmlRuntimeService, "close", map[string]any{"appId": appID})
	return err
}
