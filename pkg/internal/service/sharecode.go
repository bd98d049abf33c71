package service

import (
	crand "crypto/rand"
	"fmt"
	"strconv"
	"time"
)

const (
	// shareCodeLength 分享码固定长度.
	shareCodeLength = 8
	// shareCodeAttempts 随机生成的最大尝试次数，之后换用时间戳兜底.
	shareCodeAttempts = 10
)

// shareCodeAlphabet 分享码字符集，大小写字母加数字.
const shareCodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomShareCode 生成一个 8 位随机分享码.
func randomShareCode() (string, error) {
	buf := make([]byte, shareCodeLength)
	if _, err := crand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	for i, b := range buf {
		buf[i] = shareCodeAlphabet[int(b)%len(shareCodeAlphabet)]
	}

	return string(buf), nil
}

// fallbackShareCode 时间戳兜底分享码：毫秒时间戳的 base36 尾部拼上
// 随机前缀，凑满 8 位. 随机生成连续撞码时使用，实际几乎不可能触达.
func fallbackShareCode() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	if len(ts) > shareCodeLength-2 {
		ts = ts[len(ts)-(shareCodeLength-2):]
	}

	prefix, err := randomShareCode()
	if err != nil {
		prefix = "zz"
	}

	return prefix[:shareCodeLength-len(ts)] + ts
}
