// Package config 提供 VoiceBridge 的配置管理功能。
//
// 配置按 默认值 → YAML 文件 → VOICEBRIDGE_* 环境变量 的顺序叠加，
// 并负责把 elevenlabs 与 pricing 段装配为 speech 包的配置、
// 凭据解析链与计费器。
package config
