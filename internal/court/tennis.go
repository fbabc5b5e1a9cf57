package court

import "court-fitter/pkg/geometry"

// Tennis court (ITF)
//
// Physical Characteristics:
// - Doubles court: 10.97 m x 23.77 m
// - Singles sidelines 1.37 m inside the doubles sidelines
// - Service lines 6.40 m from the net, i.e. 5.485 m from each baseline
// - Center service line joins the two service lines

const (
	TennisName = "tennis"

	TennisWidth         = 10.97
	TennisLength        = 23.77
	TennisAlley         = 1.37
	TennisServiceOffset = 5.485
)

// TennisSpec returns the tennis court specification.
func TennisSpec() *BaseSpec {
	w, l := TennisWidth, TennisLength
	left, right := TennisAlley, TennisWidth-TennisAlley
	far, near := TennisServiceOffset, TennisLength-TennisServiceOffset

	return &BaseSpec{
		SpecName:     TennisName,
		WidthMeters:  w,
		LengthMeters: l,
		Horizontal: []Segment{
			{Name: "far baseline", Start: pt(0, 0), End: pt(w, 0), Pairable: true},
			{Name: "far service line", Start: pt(left, far), End: pt(right, far), Pairable: true},
			{Name: "near service line", Start: pt(left, near), End: pt(right, near), Pairable: true},
			{Name: "near baseline", Start: pt(0, l), End: pt(w, l), Pairable: true},
		},
		Vertical: []Segment{
			{Name: "left doubles sideline", Start: pt(0, 0), End: pt(0, l), Pairable: true},
			{Name: "left singles sideline", Start: pt(left, 0), End: pt(left, l), Pairable: true},
			{Name: "center service line", Start: pt(w/2, far), End: pt(w/2, near)},
			{Name: "right singles sideline", Start: pt(right, 0), End: pt(right, l), Pairable: true},
			{Name: "right doubles sideline", Start: pt(w, 0), End: pt(w, l), Pairable: true},
		},
	}
}

func pt(x, y float64) geometry.Point2D {
	return geometry.NewPoint2D(x, y)
}
