package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/raidsim/encounter"
	"go.uber.org/zap"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

var (
	white   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	enabled = color.NRGBA{R: 0x2e, G: 0x6b, B: 0x3a, A: 0xff}
	off     = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
)

// NewSettingsUI builds the pause panel: one toggle per mechanic of the
// active encounter plus seed controls.
func NewSettingsUI(v *Viewer) *ebitenui.UI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter, Stretch: true})

	button := func(label string, bg color.Color, onClick func()) *widget.Button {
		img := imageui.NewNineSliceColor(bg)
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: img, Pressed: img}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(center),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) { onClick() }),
		)
	}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(baseWidth/2, baseHeight/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)

	title := "Settings"
	enc, active := v.rt.Encounters.Active()
	if active {
		title = enc.Name() + " settings    seed " + enc.SeedString()
	}
	panel.AddChild(widget.NewText(
		widget.TextOpts.Text(title, &face, white),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	))

	if active {
		for _, entry := range enc.Entries() {
			on := v.cfg.EncounterBool(entry.Key, entry.Default)
			bg := off
			if on {
				bg = enabled
			}
			panel.AddChild(button(entry.Key, bg, func() { v.toggle(entry, !on) }))
		}
		panel.AddChild(button("Copy seed", off, func() { v.copySeed() }))
		if v.client != nil {
			panel.AddChild(button("Share seed", off, v.shareSeed))
		}
	}
	panel.AddChild(button("Resume", off, func() { v.paused = false }))

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	return &ebitenui.UI{Container: root}
}

// toggle stores a mechanic setting and rebuilds the encounter with it.
func (v *Viewer) toggle(entry encounter.Entry, on bool) {
	if err := v.cfg.SetEncounterSetting(entry.Key, on); err != nil {
		v.log.Error("failed to change setting", zap.String("key", entry.Key), zap.Error(err))
		return
	}
	if v.cfg.Path() != "" {
		if err := v.cfg.Save(); err != nil {
			v.log.Warn("failed to save config", zap.Error(err))
		}
	}
	v.rt.Encounters.RefreshMechanics()
	v.rebuildUI = true
}

func (v *Viewer) copySeed() {
	seed, ok := v.rt.Encounters.Seed()
	if !ok {
		return
	}
	if err := clipboard.Init(); err != nil {
		v.log.Warn("clipboard unavailable", zap.Error(err))
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(seed))
	v.game.Toast("Seed copied: " + seed)
}
