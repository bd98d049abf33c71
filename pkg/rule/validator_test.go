package rule_test

import (
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/yeisme/mediavault/pkg/rule"
)

// mediaForm 模拟媒体创建请求的校验字段.
type mediaForm struct {
	URL      string `rule:"required,url"`
	Filename string `rule:"required"`
	Size     int64  `rule:"gte=0"`
}

// TestEngine 测试 Engine 函数返回非 nil 实例.
func TestEngine(t *testing.T) {
	engine := rule.Engine()
	if engine == nil {
		t.Error("Engine() returned nil")
	}
}

// TestValidateStruct 测试 ValidateStruct 对有效和无效结构体的验证.
func TestValidateStruct(t *testing.T) {
	// 有效结构体
	valid := mediaForm{URL: "https://files.catbox.moe/abc123.jpg", Filename: "abc123.jpg", Size: 1024}

	err := rule.ValidateStruct(valid)
	if err != nil {
		t.Errorf("Expected no error for valid struct, got %v", err)
	}

	// 无效结构体：URL 不是合法 URL
	invalid1 := mediaForm{URL: "not-a-url", Filename: "abc123.jpg", Size: 1024}

	err = rule.ValidateStruct(invalid1)
	if err == nil {
		t.Error("Expected error for invalid struct (bad url), got nil")
	}

	// 无效结构体：Size 为负数
	invalid2 := mediaForm{URL: "https://files.catbox.moe/abc123.jpg", Filename: "abc123.jpg", Size: -1}

	err = rule.ValidateStruct(invalid2)
	if err == nil {
		t.Error("Expected error for invalid struct (negative size), got nil")
	}
}

// TestValidateVar 测试 ValidateVar 对变量的验证.
func TestValidateVar(t *testing.T) {
	// 有效 URL
	err := rule.ValidateVar("https://i.dhrv.dev/a.png", "required,url")
	if err != nil {
		t.Errorf("Expected no error for valid url, got %v", err)
	}

	// 无效 URL
	err = rule.ValidateVar("::bad::", "required,url")
	if err == nil {
		t.Error("Expected error for invalid url, got nil")
	}

	// 有效数字
	err = rule.ValidateVar(25, "gte=0")
	if err != nil {
		t.Errorf("Expected no error for valid number, got %v", err)
	}

	// 无效数字
	err = rule.ValidateVar(-5, "gte=0")
	if err == nil {
		t.Error("Expected error for invalid number, got nil")
	}
}

// TestRegisterValidation 测试注册自定义验证.
func TestRegisterValidation(t *testing.T) {
	// 注册自定义验证：检查字符串长度是否为偶数
	err := rule.RegisterValidation("even_length", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}

		return len(str)%2 == 0
	})
	if err != nil {
		t.Fatalf("Failed to register validation: %v", err)
	}

	// 测试有效字符串
	err = rule.ValidateVar("test", "even_length")
	if err != nil {
		t.Errorf("Expected no error for even length string, got %v", err)
	}

	// 测试无效字符串
	err = rule.ValidateVar("test1", "even_length")
	if err == nil {
		t.Error("Expected error for odd length string, got nil")
	}
}

// TestRegisterAlias 测试注册别名.
func TestRegisterAlias(t *testing.T) {
	rule.RegisterAlias("min_required", "required,min=3")

	// 测试有效字符串
	err := rule.ValidateVar("abc", "min_required")
	if err != nil {
		t.Errorf("Expected no error for valid string with alias, got %v", err)
	}

	// 测试无效字符串
	err = rule.ValidateVar("ab", "min_required")
	if err == nil {
		t.Error("Expected error for invalid string with alias, got nil")
	}
}

// TestErrors 测试验证错误字典解析.
func TestErrors(t *testing.T) {
	invalid := mediaForm{URL: "", Filename: "", Size: -1}

	err := rule.ValidateStruct(invalid)
	if err == nil {
		t.Fatal("Expected error for invalid struct, got nil")
	}

	errs := rule.Errors(err)
	if len(errs) != 3 {
		t.Errorf("Expected 3 field errors, got %d: %v", len(errs), errs)
	}

	if _, ok := errs["URL"]; !ok {
		t.Error("Expected URL field error")
	}

	// 非验证错误返回 nil
	if got := rule.Errors(nil); got != nil {
		t.Errorf("Expected nil for nil error, got %v", got)
	}
}
