package tempo

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	overlayNodeColor   = color.RGBA{0x40, 0xc0, 0xff, 0xff}
	overlayBoneColor   = color.RGBA{0xff, 0x80, 0x20, 0xff}
	overlayAttachColor = color.RGBA{0xff, 0x40, 0xa0, 0xff}
	overlayBackground  = color.RGBA{0, 0, 0, 0x80}
)

// DrawOverlay draws a marker at each visible node's origin, the bones of
// every registered skeleton, a ring around each bone attachment, and a
// stats panel in the top-left corner.
func DrawOverlay(dst *ebiten.Image, s *Scene) {
	drawNodeMarkers(dst, s.root)

	for _, sk := range s.skeletons {
		for i := range sk.Bones {
			m := sk.BoneWorldTransform(i)
			vector.DrawFilledCircle(dst, float32(m[4]), float32(m[5]), 2, overlayBoneColor, true)
			if p := sk.Bones[i].Parent; p >= 0 {
				pm := sk.BoneWorldTransform(p)
				vector.StrokeLine(dst, float32(pm[4]), float32(pm[5]), float32(m[4]), float32(m[5]), 1, overlayBoneColor, true)
			}
		}
		for _, a := range sk.Attachments().Attachments() {
			wt := a.Node.WorldTransform()
			vector.StrokeCircle(dst, float32(wt[4]), float32(wt[5]), 5, 1, overlayAttachColor, true)
		}
	}

	vector.DrawFilledRect(dst, 0, 0, 180, 80, overlayBackground, false)
	ebitenutil.DebugPrint(dst, overlayText(s))
}

func drawNodeMarkers(dst *ebiten.Image, n *Node) {
	if !n.Visible {
		return
	}
	wt := n.worldTransform
	vector.DrawFilledRect(dst, float32(wt[4])-1.5, float32(wt[5])-1.5, 3, 3, overlayNodeColor, false)
	for _, c := range n.children {
		drawNodeMarkers(dst, c)
	}
}

func overlayText(s *Scene) string {
	return fmt.Sprintf("FPS: %.1f  TPS: %.1f\nframe:   %d\ntweens:  %d/%d\nmotions: %d\nqueued:  %d\nbanked:  %.4f",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		s.frame,
		s.Tweens.Len(), s.Tweens.Cap(),
		s.Motions.Len(),
		s.dispatch.Len(),
		s.driver.Accumulated(),
	)
}
