package config

// 布局配置常量
// 本文件定义了俯视图绘制参数：窗口尺寸、世界坐标到屏幕坐标的缩放、面板位置等

// 窗口配置
const (
	// GameWindowWidth 游戏逻辑宽度（像素）
	GameWindowWidth = 800

	// GameWindowHeight 游戏逻辑高度（像素）
	GameWindowHeight = 600
)

// 俯视图投影配置
// 世界坐标的 X 轴向右，Z 轴向屏幕上方；Y 轴（高度）不参与投影
const (
	// ArenaPixelsPerUnit 每个世界单位对应的像素数
	ArenaPixelsPerUnit = 32.0

	// ArenaScreenCenterX 世界原点在屏幕上的X坐标
	ArenaScreenCenterX = GameWindowWidth / 2

	// ArenaScreenCenterY 世界原点在屏幕上的Y坐标
	ArenaScreenCenterY = GameWindowHeight/2 + 20
)

// 槽位与角色绘制尺寸（世界单位）
const (
	// SlotMarkRadius 槽位标记圆盘半径
	SlotMarkRadius = 1.1

	// ActorFacingLength 朝向指示线长度
	ActorFacingLength = 0.8
)

// HUD 与面板配置
const (
	// HUDMarginX HUD 文本左边距
	HUDMarginX = 8

	// HUDMarginY HUD 文本上边距
	HUDMarginY = 8

	// PanelWidth 回合面板宽度
	PanelWidth = 420

	// PanelHeight 回合面板高度
	PanelHeight = 260

	// PanelTextPadding 面板文本内边距
	PanelTextPadding = 24
)

// WorldToScreen 将世界坐标 (x, z) 投影为屏幕坐标
func WorldToScreen(x, z float64) (float32, float32) {
	sx := ArenaScreenCenterX + x*ArenaPixelsPerUnit
	sy := ArenaScreenCenterY - z*ArenaPixelsPerUnit
	return float32(sx), float32(sy)
}
