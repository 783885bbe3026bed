package systems

import (
	"image"
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/silverdavi/rheal-lab/pkg/components"
	"github.com/silverdavi/rheal-lab/pkg/config"
	"github.com/silverdavi/rheal-lab/pkg/ecs"
	"github.com/silverdavi/rheal-lab/pkg/types"
	"github.com/silverdavi/rheal-lab/pkg/utils"
)

// RenderSystem 负责园区场景的绘制
//
// 绘制顺序：
//  1. 地面瓦片（按对角线自然有序，整体在所有实体之下）
//  2. 世界实体（建筑、代理），按 utils.DepthKey 从后向前排序
//
// 没有美术资源，所有图元用顶点三角形和 vector 基元绘制：
// 菱形瓦片两个三角形，建筑是带两个侧面的棱柱，代理是圆形
type RenderSystem struct {
	entityManager *ecs.EntityManager
	gridSystem    *WorldGridSystem

	// 复用的顶点/索引缓冲，避免每帧分配
	vertices []ebiten.Vertex
	indices  []uint16

	// HighlightCell 当前移动目标格子，走到后由场景清除
	HighlightCell *types.GridCell
	// HoverCell 指针悬停的格子，每帧由场景更新
	HoverCell *types.GridCell
	// ShowGridLines 是否描画瓦片边线（设置项）
	ShowGridLines bool
}

// whiteImage 用于纯色三角形填充的 1x1 白色源图
// 取 3x3 图像的中心子图，避免采样边缘渗色
var whiteImage = ebiten.NewImage(3, 3)

func init() {
	whiteImage.Fill(color.White)
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(em *ecs.EntityManager, grid *WorldGridSystem) *RenderSystem {
	return &RenderSystem{
		entityManager: em,
		gridSystem:    grid,
		vertices:      make([]ebiten.Vertex, 0, 512),
		indices:       make([]uint16, 0, 768),
	}
}

// 站点类型 → 建筑配色
func stationColor(station types.StationType) color.RGBA {
	switch station {
	case types.StationReception:
		return color.RGBA{R: 0xc9, G: 0x86, B: 0x4b, A: 0xff}
	case types.StationConsult:
		return color.RGBA{R: 0x7a, G: 0x9e, B: 0xd6, A: 0xff}
	case types.StationLab:
		return color.RGBA{R: 0xb0, G: 0x6e, B: 0xc4, A: 0xff}
	case types.StationCryo:
		return color.RGBA{R: 0x6e, G: 0xc4, B: 0xc4, A: 0xff}
	case types.StationGarden:
		return color.RGBA{R: 0x5a, G: 0xa0, B: 0x4f, A: 0xff}
	default:
		return color.RGBA{R: 0x9a, G: 0x9a, B: 0x9a, A: 0xff}
	}
}

// Draw 绘制整个场景
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	s.drawGround(screen)
	s.drawEntities(screen)
}

// drawGround 绘制所有地面瓦片
// 遍历顺序 y 外 x 内天然是从后向前，无需额外排序
func (s *RenderSystem) drawGround(screen *ebiten.Image) {
	cols, rows := s.gridSystem.Columns(), s.gridSystem.Rows()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			cell := types.Cell(x, y)
			clr := color.RGBA{R: 0x8f, G: 0xb8, B: 0x6a, A: 0xff}
			if (x+y)%2 == 1 {
				clr = color.RGBA{R: 0x86, G: 0xb0, B: 0x62, A: 0xff}
			}
			if s.HoverCell != nil && *s.HoverCell == cell {
				clr = color.RGBA{R: 0x9c, G: 0xc2, B: 0x78, A: 0xff}
			}
			if s.HighlightCell != nil && *s.HighlightCell == cell {
				clr = color.RGBA{R: 0xde, G: 0xd8, B: 0x6e, A: 0xff}
			}
			s.fillTile(screen, cell, clr)
			if s.ShowGridLines {
				s.strokeTile(screen, cell)
			}
		}
	}
}

// drawable 是一帧内待排序的可绘制对象
type drawable struct {
	depth float64
	draw  func(*ebiten.Image)
}

// drawEntities 收集建筑与代理，按深度键排序后绘制
func (s *RenderSystem) drawEntities(screen *ebiten.Image) {
	var items []drawable

	for _, id := range ecs.GetEntitiesWith[*components.BuildingComponent](s.entityManager) {
		building, ok := ecs.GetComponent[*components.BuildingComponent](s.entityManager, id)
		if !ok {
			continue
		}
		b := building
		// 建筑深度取覆盖区最靠前的角（最大 x+y）
		far := types.Cell(b.Origin.X+b.Width-1, b.Origin.Y+b.Height-1)
		items = append(items, drawable{
			depth: utils.DepthKey(far.X, far.Y, 0),
			draw:  func(dst *ebiten.Image) { s.drawBuilding(dst, b) },
		})
	}

	for _, id := range ecs.GetEntitiesWith2[
		*components.WalkerComponent,
		*components.PositionComponent,
	](s.entityManager) {
		walker, _ := ecs.GetComponent[*components.WalkerComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if walker == nil || pos == nil {
			continue
		}
		w, p := walker, pos
		items = append(items, drawable{
			depth: utils.DepthKey(w.Cell.X, w.Cell.Y, 1),
			draw:  func(dst *ebiten.Image) { s.drawAgent(dst, w, p) },
		})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].depth < items[j].depth })
	for _, it := range items {
		it.draw(screen)
	}
}

// tileCorners 返回格子菱形的四个屏幕顶点：上、右、下、左
// GridToScreen 给出的是格子菱形的上顶点
func tileCorners(cell types.GridCell) (tx, ty, rx, ry, bx, by, lx, ly float32) {
	sx, sy := utils.CellToScreen(cell)
	halfW := float32(config.TileWidth / 2)
	halfH := float32(config.TileHeight / 2)
	tx, ty = float32(sx), float32(sy)
	rx, ry = tx+halfW, ty+halfH
	bx, by = tx, ty+2*halfH
	lx, ly = tx-halfW, ty+halfH
	return
}

// fillTile 填充一个菱形瓦片
func (s *RenderSystem) fillTile(screen *ebiten.Image, cell types.GridCell, clr color.RGBA) {
	tx, ty, rx, ry, bx, by, lx, ly := tileCorners(cell)
	s.fillQuad(screen, tx, ty, rx, ry, bx, by, lx, ly, clr)
}

// strokeTile 描画瓦片边线
func (s *RenderSystem) strokeTile(screen *ebiten.Image, cell types.GridCell) {
	tx, ty, rx, ry, bx, by, lx, ly := tileCorners(cell)
	lineColor := color.RGBA{R: 0x4a, G: 0x63, B: 0x38, A: 0x50}
	vector.StrokeLine(screen, tx, ty, rx, ry, 1, lineColor, true)
	vector.StrokeLine(screen, rx, ry, bx, by, 1, lineColor, true)
	vector.StrokeLine(screen, bx, by, lx, ly, 1, lineColor, true)
	vector.StrokeLine(screen, lx, ly, tx, ty, 1, lineColor, true)
}

// drawBuilding 绘制一个建筑棱柱：顶面 + 左右两个侧面
func (s *RenderSystem) drawBuilding(screen *ebiten.Image, b *components.BuildingComponent) {
	base := stationColor(b.Station)
	rise := float32(config.TileHeight) * 1.25 // 建筑抬升高度（像素）

	// 覆盖区菱形的四个角格子
	top := b.Origin
	right := types.Cell(b.Origin.X+b.Width-1, b.Origin.Y)
	bottom := types.Cell(b.Origin.X+b.Width-1, b.Origin.Y+b.Height-1)
	left := types.Cell(b.Origin.X, b.Origin.Y+b.Height-1)

	ttx, tty, _, _, _, _, _, _ := tileCorners(top)
	_, _, rrx, rry, _, _, _, _ := tileCorners(right)
	_, _, _, _, bbx, bby, _, _ := tileCorners(bottom)
	_, _, _, _, _, _, llx, lly := tileCorners(left)

	shade := func(c color.RGBA, f float64) color.RGBA {
		return color.RGBA{
			R: uint8(float64(c.R) * f),
			G: uint8(float64(c.G) * f),
			B: uint8(float64(c.B) * f),
			A: c.A,
		}
	}

	// 左侧面（西南朝向，较暗）
	s.fillQuad(screen,
		llx, lly-rise, bbx, bby-rise,
		bbx, bby, llx, lly,
		shade(base, 0.60))
	// 右侧面（东南朝向，中等）
	s.fillQuad(screen,
		bbx, bby-rise, rrx, rry-rise,
		rrx, rry, bbx, bby,
		shade(base, 0.78))
	// 顶面
	s.fillQuad(screen,
		ttx, tty-rise, rrx, rry-rise,
		bbx, bby-rise, llx, lly-rise,
		base)

	// 入口格子标记
	s.fillTile(screen, b.Entry, shade(base, 1.15))
}

// drawAgent 绘制代理：落影 + 圆形身体 + 朝向点
func (s *RenderSystem) drawAgent(screen *ebiten.Image, w *components.WalkerComponent, p *components.PositionComponent) {
	// 渲染位置指向格子菱形上顶点，身体中心对齐瓦片中心
	cx := float32(p.X)
	cy := float32(p.Y) + float32(config.TileHeight/2)

	vector.DrawFilledCircle(screen, cx, cy+2, 8, color.RGBA{A: 0x50}, true)

	bodyColor := color.RGBA{R: 0xe8, G: 0xe0, B: 0xd2, A: 0xff}
	if w.State == types.MotionBusy {
		bodyColor = color.RGBA{R: 0xb8, G: 0xb0, B: 0xa2, A: 0xff}
	}
	vector.DrawFilledCircle(screen, cx, cy-10, 9, bodyColor, true)

	// 朝向点：在身体边缘沿朝向偏移
	var ox, oy float32
	switch w.Facing {
	case types.DirEast:
		ox, oy = 6, 3
	case types.DirWest:
		ox, oy = -6, -3
	case types.DirSouth:
		ox, oy = -6, 3
	case types.DirNorth:
		ox, oy = 6, -3
	}
	vector.DrawFilledCircle(screen, cx+ox, cy-10+oy, 2.5, color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}, true)
}

// fillQuad 用两个三角形填充任意四边形（顶点按顺时针或逆时针给出）
// 顶点缓冲做法与粒子渲染一致：共用白色源图，逐顶点乘颜色
func (s *RenderSystem) fillQuad(screen *ebiten.Image,
	x0, y0, x1, y1, x2, y2, x3, y3 float32, clr color.RGBA) {

	cr := float32(clr.R) / 255
	cg := float32(clr.G) / 255
	cb := float32(clr.B) / 255
	ca := float32(clr.A) / 255

	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]

	for _, pt := range [4][2]float32{{x0, y0}, {x1, y1}, {x2, y2}, {x3, y3}} {
		s.vertices = append(s.vertices, ebiten.Vertex{
			DstX: pt[0], DstY: pt[1],
			SrcX: 1, SrcY: 1,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		})
	}
	s.indices = append(s.indices, 0, 1, 2, 0, 2, 3)

	src := whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	screen.DrawTriangles(s.vertices, s.indices, src, &ebiten.DrawTrianglesOptions{})
}
