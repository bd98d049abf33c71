// Package service 实现媒体库的业务逻辑，位于 handle 与 repo/storage 之间.
package service

import "errors"

var (
	// ErrValidation 请求参数未通过业务校验.
	ErrValidation = errors.New("validation failed")
	// ErrPayloadTooLarge 代理上传超出入站载荷上限.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrUnsupportedType 代理上传的 MIME 类型不在允许列表.
	ErrUnsupportedType = errors.New("unsupported content type")
)
