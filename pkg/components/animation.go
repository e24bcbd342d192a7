package components

// AnimationComponent 角色动画播放状态
//
// 每个角色同一时刻最多只有一个活动片段（不做混合）。
// Clips 来自资源配置，列出模型实际包含的片段及其时长（秒）。
type AnimationComponent struct {
	Clips map[string]float64 // 可用片段 -> 时长（秒）

	Current    string  // 当前片段名，空字符串表示没有活动片段
	IsPlaying  bool    // 是否正在播放
	IsLooping  bool    // 是否循环播放
	Elapsed    float64 // 当前片段已播放时间（秒）
	IsFinished bool    // 非循环片段是否已播放完毕

	// StartCounts 每个片段被启动的累计次数（调试与统计用）
	StartCounts map[string]int
}
