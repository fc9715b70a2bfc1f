package layout_test

import (
	"fmt"

	"github.com/matzehuels/circlepack/pkg/layout"
)

func ExampleUnmarshalInput() {
	data := []byte(`
radii = [10, 10, 10]
ratio = 1.5
`)
	in, err := layout.UnmarshalInput(data, layout.FormatTOML)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("radii:", in.Radii)
	fmt.Println("ratio:", in.Ratio)
	fmt.Println("seed:", in.Seed)
	// Output:
	// radii: [10 10 10]
	// ratio: 1.5
	// seed: 42
}

func ExampleMarshalLayout() {
	l := layout.Layout{
		Kind:     layout.KindPack,
		Width:    4,
		Height:   2,
		Complete: true,
		Circles: []layout.Circle{
			{R: 1, X: -1, Y: 0},
			{R: 1, X: 1, Y: 0},
		},
	}
	data, err := layout.MarshalLayout(l)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(string(data))
	// Output:
	// {
	//   "kind": "pack",
	//   "width": 4,
	//   "height": 2,
	//   "complete": true,
	//   "circles": [
	//     {
	//       "r": 1,
	//       "x": -1,
	//       "y": 0
	//     },
	//     {
	//       "r": 1,
	//       "x": 1,
	//       "y": 0
	//     }
	//   ]
	// }
}
