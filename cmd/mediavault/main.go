// Package main 启动应用程序
package main

import "github.com/yeisme/mediavault/pkg/cmd"

//	@title			MediaVault API
//	@version		1.0
//	@description	MediaVault 托管媒体库服务：外部托管直链登记、第一方域名伪装、相册分享与浏览遥测。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
