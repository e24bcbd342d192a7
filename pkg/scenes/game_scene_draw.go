package scenes

import (
	"fmt"
	"image/color"

	"github.com/decker502/musicalchairs/pkg/components"
	"github.com/decker502/musicalchairs/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ebitenutil.DebugPrint 使用的等宽字体尺寸
const (
	debugCharWidth  = 6
	debugLineHeight = 16
)

var (
	backgroundColor = color.RGBA{R: 24, G: 26, B: 34, A: 255}
	platformColor   = color.RGBA{R: 62, G: 70, B: 88, A: 255}
	wallColor       = color.RGBA{R: 150, G: 156, B: 170, A: 255}
	jogCircleColor  = color.RGBA{R: 90, G: 98, B: 120, A: 255}
	overlayColor    = color.RGBA{R: 0, G: 0, B: 0, A: 150}
	panelColor      = color.RGBA{R: 36, G: 40, B: 56, A: 235}
	panelEdgeColor  = color.RGBA{R: 220, G: 200, B: 120, A: 255}
	facingColor     = color.RGBA{R: 255, G: 255, B: 255, A: 255}

	// 槽位颜色：红色空位，蓝色男孩，粉色女孩
	slotFreeColor = color.RGBA{R: 200, G: 50, B: 50, A: 255}
	boyColor      = color.RGBA{R: 60, G: 110, B: 230, A: 255}
	girlColor     = color.RGBA{R: 240, G: 120, B: 190, A: 255}
)

// identityColor 角色 / 占领者对应的颜色
func identityColor(id components.ActorIdentity) color.Color {
	switch id {
	case components.ActorBoy:
		return boyColor
	case components.ActorGirl:
		return girlColor
	default:
		return slotFreeColor
	}
}

// Draw 绘制俯视图竞技场、HUD 和回合面板
func (s *GameScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	s.drawArena(screen)
	s.drawSlots(screen)
	s.drawActors(screen)
	s.drawHUD(screen)
	s.drawPanel(screen)
}

// drawArena 平台和四面墙
func (s *GameScene) drawArena(screen *ebiten.Image) {
	tuning := s.match.Tuning()
	h := tuning.Arena.HalfExtent

	x0, y0 := config.WorldToScreen(-h, h)
	x1, y1 := config.WorldToScreen(h, -h)
	vector.DrawFilledRect(screen, x0, y0, x1-x0, y1-y0, platformColor, false)
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 4, wallColor, false)

	// 玩家绕圈轨迹
	jog := tuning.Player.Jog
	cx, cy := config.WorldToScreen(jog.Center.X, jog.Center.Z)
	vector.StrokeCircle(screen, cx, cy, float32(jog.Radius*config.ArenaPixelsPerUnit), 1, jogCircleColor, true)
}

// drawSlots 槽位标记，颜色表示占领者
func (s *GameScene) drawSlots(screen *ebiten.Image) {
	r := float32(config.SlotMarkRadius * config.ArenaPixelsPerUnit)
	for i := range s.match.Slots() {
		slot, ok := s.match.Slot(i)
		if !ok {
			continue
		}
		x, y := config.WorldToScreen(slot.Position.X(), slot.Position.Z())
		vector.DrawFilledCircle(screen, x, y, r, identityColor(slot.Occupant), true)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d", slot.Index+1), int(x)-debugCharWidth/2, int(y)-debugLineHeight/2)
	}
}

// drawActors 两个角色及其朝向
func (s *GameScene) drawActors(screen *ebiten.Image) {
	radius := s.match.Tuning().Actor.Radius
	for _, id := range []components.ActorIdentity{components.ActorBoy, components.ActorGirl} {
		entity := s.match.Player()
		if id == components.ActorGirl {
			entity = s.match.Bot()
		}
		tr, ok := s.match.Transform(entity)
		if !ok {
			continue
		}

		x, y := config.WorldToScreen(tr.Position.X(), tr.Position.Z())
		vector.DrawFilledCircle(screen, x, y, float32(radius*config.ArenaPixelsPerUnit), identityColor(id), true)

		facing := tr.Facing.Mul(config.ActorFacingLength)
		fx, fy := config.WorldToScreen(tr.Position.X()+facing.X(), tr.Position.Z()+facing.Z())
		vector.StrokeLine(screen, x, y, fx, fy, 2, facingColor, true)
	}
}

// drawHUD 回合 / 阶段 / 比分，右上角 FPS 和 TPS
func (s *GameScene) drawHUD(screen *ebiten.Image) {
	round := s.match.Round()
	music := "on"
	if !s.musicEnabled() {
		music = "off"
	}

	lines := []string{
		fmt.Sprintf("Round %d  %s", max(round.Index, 1), round.Phase),
		fmt.Sprintf("Boy %d : %d Girl", round.ScoreBoy, round.ScoreGirl),
		fmt.Sprintf("Music %s [M]   Session %s", music, s.session.ShortID()),
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, config.HUDMarginX, config.HUDMarginY+i*debugLineHeight)
	}

	perf := fmt.Sprintf("FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
	ebitenutil.DebugPrintAt(screen, perf, config.GameWindowWidth-len(perf)*debugCharWidth-config.HUDMarginX, config.HUDMarginY)
}

// drawPanel 开局 / 结算 / 胜利面板
func (s *GameScene) drawPanel(screen *ebiten.Image) {
	lines := s.panelLines()
	if len(lines) == 0 {
		return
	}

	vector.DrawFilledRect(screen, 0, 0, config.GameWindowWidth, config.GameWindowHeight, overlayColor, false)

	x := float32(config.GameWindowWidth-config.PanelWidth) / 2
	y := float32(config.GameWindowHeight-config.PanelHeight) / 2
	vector.DrawFilledRect(screen, x, y, config.PanelWidth, config.PanelHeight, panelColor, false)
	vector.StrokeRect(screen, x, y, config.PanelWidth, config.PanelHeight, 2, panelEdgeColor, false)

	for i, line := range lines {
		// 每行水平居中
		lx := int(x) + (config.PanelWidth-len(line)*debugCharWidth)/2
		ly := int(y) + config.PanelTextPadding + i*debugLineHeight
		ebitenutil.DebugPrintAt(screen, line, lx, ly)
	}
}

// panelLines 当前面板的文本行，没有面板时返回 nil
func (s *GameScene) panelLines() []string {
	switch s.visiblePanel() {
	case panelReady:
		return []string{
			"MUSICAL CHAIRS",
			"",
			"Press J to jog around the circle.",
			"When the music stops, run to a free chair",
			"with W A S D or the arrow keys.",
			fmt.Sprintf("First to %d chairs wins.", s.match.Tuning().Round.ScoreThreshold),
			"",
			"M: music on/off",
			"",
			"Press Enter to start",
		}

	case panelRoundResult:
		return []string{
			fmt.Sprintf("ROUND %d", s.panelRound),
			"",
			fmt.Sprintf("Boy %d : %d Girl", s.panelBoy, s.panelGirl),
			"",
			"Press Enter to continue",
		}

	case panelVictory:
		title := "DRAW"
		if s.panelWinner != components.ActorNone {
			title = fmt.Sprintf("%s WINS!", s.panelWinner)
		}
		round := s.match.Round()
		return []string{
			title,
			"",
			fmt.Sprintf("Boy %d : %d Girl", round.ScoreBoy, round.ScoreGirl),
			"",
			"Press Enter to play again",
		}
	}
	return nil
}
