package packer_test

import (
	"fmt"

	"github.com/matzehuels/circlepack/pkg/core/packer"
)

func ExamplePack() {
	res, err := packer.Pack([]float64{10, 10, 10}, 1.0, packer.WithSeed(7))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("circles:", len(res.Circles))
	fmt.Println("complete:", res.Complete)
	fmt.Println("attempts:", res.Attempts)
	// Output:
	// circles: 3
	// complete: true
	// attempts: 9
}

func ExampleWithObserver() {
	p, err := packer.New([]float64{4, 2, 1}, 2.0, packer.WithObserver(func(a packer.Attempt) {
		fmt.Printf("trial %d step %.2f\n", a.Index, a.Step)
	}))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	res := p.Solve()
	fmt.Println("attempts:", res.Attempts)
	// Output:
	// trial 0 step 32.99
	// trial 1 step 16.49
	// trial 2 step 8.25
	// trial 3 step 4.12
	// trial 4 step 2.06
	// trial 5 step 1.03
	// trial 6 step 0.52
	// trial 7 step 0.26
	// trial 8 step 0.13
	// attempts: 9
}
