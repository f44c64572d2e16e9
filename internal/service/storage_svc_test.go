package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewStorageProvider_Local(t *testing.T) {
	tempDir := t.TempDir()

	p, err := NewStorageProvider(&StorageConfig{
		Provider: "local",
		LocalDir: tempDir,
	})
	if err != nil {
		t.Fatalf("NewStorageProvider() error = %v", err)
	}
	if _, ok := p.(*LocalStorage); !ok {
		t.Errorf("期望 *LocalStorage，实际 %T", p)
	}
}

func TestNewStorageProvider_InvalidProvider(t *testing.T) {
	_, err := NewStorageProvider(&StorageConfig{
		Provider: "invalid",
	})
	if err == nil {
		t.Error("期望返回错误，但未返回")
	}
}

func TestNewStorageProvider_S3(t *testing.T) {
	p, err := NewStorageProvider(&StorageConfig{
		Provider:  "s3",
		Bucket:    "snapshots",
		Region:    "us-east-1",
		AccessKey: "test",
		SecretKey: "test",
		Endpoint:  "http://127.0.0.1:9000",
	})
	if err != nil {
		t.Fatalf("NewStorageProvider() error = %v", err)
	}
	s, ok := p.(*S3Storage)
	if !ok {
		t.Fatalf("期望 *S3Storage，实际 %T", p)
	}
	if s.bucket != "snapshots" {
		t.Errorf("bucket = %s", s.bucket)
	}
}

func TestLocalStorage_Upload(t *testing.T) {
	tempDir := t.TempDir()

	p, err := NewLocalStorage(&StorageConfig{LocalDir: tempDir, BasePath: "channel-admin"})
	if err != nil {
		t.Fatalf("初始化失败: %v", err)
	}

	data := []byte(`{"ok":true}`)
	location, err := p.Upload(context.Background(), data, "test.json", "application/json")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if !strings.HasPrefix(location, tempDir) {
		t.Errorf("路径应位于 %s 下: %s", tempDir, location)
	}
	if filepath.Base(location) != "test.json" {
		t.Errorf("文件名错误: %s", location)
	}

	got, err := os.ReadFile(location)
	if err != nil {
		t.Fatalf("读取文件失败: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("内容不一致: %s", got)
	}
}

func TestObjectKey(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		basePath string
		want     string
	}{
		{"带前缀", "channel-admin", "channel-admin/2024/03/05/a.json"},
		{"无前缀", "", "2024/03/05/a.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := objectKey(tt.basePath, "a.json", now); got != tt.want {
				t.Errorf("objectKey() = %s, want %s", got, tt.want)
			}
		})
	}
}
