// embed.go - 资源嵌入声明
// 必须放在项目根目录（与 data/ 同级）
// 因为 //go:embed 指令只能嵌入当前包目录及其子目录的文件
package main

import _ "embed"

// defaultTuningYAML 内嵌的默认数值配置，未指定 -tuning 时使用
//
//go:embed data/tuning.yaml
var defaultTuningYAML []byte
