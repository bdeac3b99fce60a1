package hypergraph_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/hyperlath/hypergraph"
)

// ExampleNew builds a small hypergraph and inspects its structure.
func ExampleNew() {
	h, err := hypergraph.New(4,
		hypergraph.WithEdgeList([][]int{{0, 1, 2}, {1, 2, 3}}),
		hypergraph.WithEdgeWeights(hypergraph.PerEdge([]float64{1, 2})),
	)
	if err != nil {
		panic(err)
	}

	fmt.Println(h)
	fmt.Println("deg_v:", h.DegV())
	fmt.Println("deg_e:", h.DegE())

	// Output:
	// Hypergraph(num_v=4, num_e=2)
	// deg_v: [1 3 3 2]
	// deg_e: [3 3]
}

// ExampleHypergraph_V2V runs one full vertex→hyperedge→vertex message pass.
func ExampleHypergraph_V2V() {
	h, err := hypergraph.New(4,
		hypergraph.WithEdgeList([][]int{{0, 1, 2}, {1, 2, 3}}),
	)
	if err != nil {
		panic(err)
	}

	x := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y, err := h.V2V(x, hypergraph.AggrSum, 0, hypergraph.DefaultV2VOptions())
	if err != nil {
		panic(err)
	}

	for i := 0; i < 4; i++ {
		fmt.Printf("v%d: %v\n", i, y.At(i, 0))
	}

	// Output:
	// v0: 6
	// v1: 15
	// v2: 15
	// v3: 9
}
