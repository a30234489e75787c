//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const repoRootRel = ".."
const serverPkgRel = "./cmd/server"

func TestSmoke_HTTPIngest(t *testing.T) {
	repoRoot := repoRootPath(t)
	bin := buildBinary(t, repoRoot)
	addr := pickFreeAddr(t)

	cmd := exec.Command(bin)
	cmd.Env = append(os.Environ(),
		"APP_ENV=dev",
		"LOG_LEVEL=info",
		"HTTP_ADDR="+addr,
		"MQTT_BROKER=", // http-only
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	})

	client := &http.Client{Timeout: 2 * time.Second}
	base := "http://" + addr

	waitForOK(t, client, base+"/healthz", 5*time.Second)

	payload := []byte(`{"suhu":27.5,"kelembapan":60,"co2":415,"ispu":12,"status":"Baik","ip":"192.168.1.50","rssi":-61,"timestamp":"2026-08-27T10:00:00Z","uptime":3600}`)
	resp, err := client.Post(base+"/api/sensor", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST /api/sensor: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST status=%d want=%d", resp.StatusCode, http.StatusOK)
	}

	resp, err = client.Get(base + "/api/sensor")
	if err != nil {
		t.Fatalf("GET /api/sensor: %v", err)
	}
	defer resp.Body.Close()

	// The snapshot nests the reading under "data".
	var snap struct {
		Data struct {
			Suhu json.RawMessage `json:"suhu"`
			CO2  json.RawMessage `json:"co2"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if string(snap.Data.Suhu) != "27.5" {
		t.Errorf("suhu = %s, want 27.5", snap.Data.Suhu)
	}
	if string(snap.Data.CO2) != "415" {
		t.Errorf("co2 = %s, want 415", snap.Data.CO2)
	}

	stopServer(t, cmd)
}

func TestSmoke_MQTTIngest(t *testing.T) {
	repoRoot := repoRootPath(t)
	brokerHost, brokerPort := startMosquitto(t)

	bin := buildBinary(t, repoRoot)
	addr := pickFreeAddr(t)

	cmd := exec.Command(bin)
	cmd.Env = append(os.Environ(),
		"APP_ENV=dev",
		"LOG_LEVEL=info",
		"HTTP_ADDR="+addr,
		"MQTT_BROKER="+brokerHost,
		fmt.Sprintf("MQTT_PORT=%d", brokerPort),
		"MQTT_TOPIC=monitoringsuhu/telemetry",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	})

	client := &http.Client{Timeout: 2 * time.Second}
	base := "http://" + addr

	waitForOK(t, client, base+"/healthz", 10*time.Second)

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", brokerHost, brokerPort)).
		SetClientID("smoke-publisher")
	pub := mqtt.NewClient(opts)
	if tok := pub.Connect(); tok.WaitTimeout(5*time.Second) && tok.Error() != nil {
		t.Fatalf("mqtt connect: %v", tok.Error())
	}
	defer pub.Disconnect(250)

	payload := `{"suhu":30.1,"kelembapan":55,"co2":880,"ispu":40,"status":"Sedang","ip":"192.168.1.51","rssi":-70,"timestamp":"2026-08-27T10:05:00Z","uptime":120}`
	if tok := pub.Publish("monitoringsuhu/telemetry", 1, false, payload); tok.WaitTimeout(5*time.Second) && tok.Error() != nil {
		t.Fatalf("mqtt publish: %v", tok.Error())
	}

	// Poll until the snapshot reflects the published reading.
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.Get(base + "/api/sensor")
		if err == nil {
			var snap struct {
				Data struct {
					CO2 json.RawMessage `json:"co2"`
				} `json:"data"`
			}
			decErr := json.NewDecoder(resp.Body).Decode(&snap)
			resp.Body.Close()
			if decErr == nil && string(snap.Data.CO2) == "880" {
				stopServer(t, cmd)
				return
			}
		}
		time.Sleep(200 * time.Millisecond)
	}
	t.Fatal("published reading never appeared in the snapshot")
}

func startMosquitto(t *testing.T) (string, int) {
	t.Helper()

	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2",
		ExposedPorts: []string{"1883/tcp"},
		Cmd:          []string{"mosquitto", "-c", "/mosquitto-no-auth.conf"},
		WaitingFor: wait.ForAll(
			wait.ForLog("mosquitto version"),
			wait.ForListeningPort(nat.Port("1883/tcp")),
		).WithStartupTimeoutDefault(30 * time.Second),
	}

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start mosquitto container: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Terminate(ctx)
	})

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := c.MappedPort(ctx, nat.Port("1883/tcp"))
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	return host, port.Int()
}

func repoRootPath(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	repo := filepath.Clean(filepath.Join(wd, repoRootRel))
	if _, err := os.Stat(filepath.Join(repo, "go.mod")); err != nil {
		t.Fatalf("repo root %q does not contain go.mod: %v", repo, err)
	}

	return repo
}

func buildBinary(t *testing.T, repoRoot string) string {
	t.Helper()

	tmp := t.TempDir()
	out := filepath.Join(tmp, "monitoringsuhu-server")

	build := exec.Command("go", "build", "-o", out, serverPkgRel)
	build.Dir = repoRoot
	build.Env = os.Environ()

	b, err := build.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(b))
	}

	return out
}

func pickFreeAddr(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen :0: %v", err)
	}
	defer ln.Close()

	return ln.Addr().String()
}

func waitForOK(t *testing.T, client *http.Client, url string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server not healthy after %s: %s", timeout, url)
}

func stopServer(t *testing.T, cmd *exec.Cmd) {
	t.Helper()

	_ = cmd.Process.Signal(syscall.SIGTERM)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		t.Fatalf("server did not exit in time")
	case err := <-done:
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				t.Fatalf("server exited non-zero: %v", err)
			}
			t.Fatalf("server wait error: %v", err)
		}
	}
}
