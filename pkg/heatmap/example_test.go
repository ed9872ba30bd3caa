package heatmap_test

import (
	"fmt"

	"github.com/matzehuels/stackplot/pkg/heatmap"
)

func ExampleExpand() {
	edges, err := heatmap.Expand([]heatmap.Level{{Start: 0, Stop: 1, Step: 0.25}})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(edges)
	fmt.Println(heatmap.Digitize([]float64{0.1, 0.6, 2}, edges))
	// Output:
	// [0 0.25 0.5 0.75 1]
	// [0 0.5 1]
}
