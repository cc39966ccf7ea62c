package chartclient

import (
	"context"
	"strings"
	"testing"

	"github.com/crossplane/crossplane-runtime/v2/pkg/logging"
)

type fakeRunner struct {
	gotName string
	gotArgs []string
	out     []byte
	err     error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.gotName = name
	f.gotArgs = args

	return f.out, f.err
}

func TestGetManifestBuildsExpectedArgs(t *testing.T) {
	runner := &fakeRunner{out: []byte("manifest body")}
	client := NewClient(runner, "helm", logging.NewNopLogger())

	out, err := client.GetManifest(context.Background(), "web", "default", "/tmp/kubeconfig", "my-ctx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != "manifest body" {
		t.Fatalf("expected manifest body, got %q", out)
	}

	if runner.gotName != "helm" {
		t.Errorf("expected binary helm, got %q", runner.gotName)
	}

	want := []string{"get", "manifest", "web", "--namespace", "default", "--kubeconfig", "/tmp/kubeconfig", "--kube-context", "my-ctx"}
	if strings.Join(runner.gotArgs, " ") != strings.Join(want, " ") {
		t.Errorf("unexpected args: got %v want %v", runner.gotArgs, want)
	}
}

func TestGetManifestWrapsRunnerError(t *testing.T) {
	runner := &fakeRunner{err: &fakeRunError{msg: "no such release"}}
	client := NewClient(runner, "helm", logging.NewNopLogger())

	_, err := client.GetManifest(context.Background(), "web", "", "", "")
	if err == nil {
		t.Fatal("expected an error")
	}

	if !strings.Contains(err.Error(), "web") {
		t.Errorf("expected wrapped error to mention the release name, got %v", err)
	}
}

func TestDryRunUpgradeBuildsExpectedArgs(t *testing.T) {
	runner := &fakeRunner{out: []byte("rendered")}
	client := NewClient(runner, "helm", logging.NewNopLogger())

	_, err := client.DryRunUpgrade(context.Background(), UpgradeRequest{
		Release:     "web",
		Chart:       "./chart",
		Namespace:   "default",
		ValuesFiles: []string{"values.yaml", "prod.yaml"},
		SetValues:   []string{"image.tag=1.21"},
		Version:     "2.0.0",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"upgrade", "web", "./chart", "--dry-run",
		"--values", "values.yaml", "--values", "prod.yaml",
		"--set", "image.tag=1.21",
		"--version", "2.0.0",
		"--namespace", "default",
	}
	if strings.Join(runner.gotArgs, " ") != strings.Join(want, " ") {
		t.Errorf("unexpected args: got %v want %v", runner.gotArgs, want)
	}
}

func TestDryRunUpgradeOmitsOptionalFlagsWhenEmpty(t *testing.T) {
	runner := &fakeRunner{out: []byte("rendered")}
	client := NewClient(runner, "helm", logging.NewNopLogger())

	_, err := client.DryRunUpgrade(context.Background(), UpgradeRequest{Release: "web", Chart: "./chart"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"upgrade", "web", "./chart", "--dry-run"}
	if strings.Join(runner.gotArgs, " ") != strings.Join(want, " ") {
		t.Errorf("unexpected args: got %v want %v", runner.gotArgs, want)
	}
}

type fakeRunError struct{ msg string }

func (e *fakeRunError) Error() string { return e.msg }
