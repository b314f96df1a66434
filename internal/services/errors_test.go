package services_test

import (
	"errors"
	"strings"
	"testing"

	"curator/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("connection refused")
	err := services.Wrap(services.ErrExternalTool, "classifying", "probe daemon", "health check failed", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
	for _, fragment := range []string{"classifying", "probe daemon", "health check failed"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in error text, got %q", fragment, err.Error())
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected ErrTransient fallback, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected generic detail, got %q", err.Error())
	}
}

func TestInputErrorFamily(t *testing.T) {
	if !services.IsInputError(services.ErrUnknownAssetType) {
		t.Fatal("unknown asset type should be an input error")
	}
	if !services.IsInputError(services.ErrInvalidTargetDirectory) {
		t.Fatal("invalid target directory should be an input error")
	}
	if services.IsInputError(services.ErrExternalTool) {
		t.Fatal("external tool failures are not input errors")
	}
}
