package config

const (
	// Version 语义化版本号，用于展示
	Version = "2.1.1"

	// VersionCode 单调递增的发布序号，用于更新与兼容性判断
	VersionCode = 3
)
