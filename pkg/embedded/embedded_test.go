package embedded

import (
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/formation.yaml": {Data: []byte("gridSize: 48\n")},
		"data/Map001.json":    {Data: []byte(`{"events":[]}`)},
		"data/Map002.json":    {Data: []byte(`{"events":[]}`)},
	}
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	initialized = false

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}

	Init(testFS())

	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}

	// 重置状态以避免影响其他测试
	initialized = false
}

// TestReadFileNotInitialized 测试未初始化时调用 ReadFile
func TestReadFileNotInitialized(t *testing.T) {
	initialized = false

	_, err := ReadFile("data/formation.yaml")
	if err == nil {
		t.Fatal("Expected error when calling ReadFile() before Init()")
	}
	if err.Error() != "embedded package not initialized, call Init() first" {
		t.Errorf("Unexpected error message: %v", err)
	}
}

// TestReadFile 测试路径标准化和前缀检查
func TestReadFile(t *testing.T) {
	Init(testFS())
	defer func() { initialized = false }()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"普通路径", "data/formation.yaml", "gridSize: 48\n", false},
		{"./ 前缀", "./data/formation.yaml", "gridSize: 48\n", false},
		{"未知前缀", "assets/formation.yaml", "", true},
		{"文件不存在", "data/missing.yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if string(data) != tt.want {
				t.Errorf("ReadFile(%q) = %q, want %q", tt.path, data, tt.want)
			}
		})
	}
}

// TestGlobAndExists 测试地图文件匹配
func TestGlobAndExists(t *testing.T) {
	Init(testFS())
	defer func() { initialized = false }()

	maps, err := Glob("data/Map*.json")
	if err != nil {
		t.Fatal(err)
	}
	if len(maps) != 2 {
		t.Errorf("Glob matched %v, want 2 maps", maps)
	}
	if !Exists("data/Map001.json") || Exists("data/Map003.json") {
		t.Error("Exists returned an unexpected result")
	}
	if Exists("Map001.json") {
		t.Error("Exists should reject paths outside data/")
	}
}
