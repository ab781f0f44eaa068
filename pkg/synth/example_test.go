package synth_test

import (
	"fmt"

	"github.com/matzehuels/simcluster/pkg/synth"
)

func ExampleGenerate() {
	c, err := synth.Generate(100, 64, 32, synth.WithSeed(1))
	if err != nil {
		panic(err)
	}
	rows, cols := c.Shape()
	fmt.Printf("%d rows x %d columns\n", rows, cols)
	// Output: 32 rows x 64 columns
}

func ExampleGenerateWithReport() {
	_, rep, err := synth.GenerateWithReport(500, 128, 128, synth.WithSeed(42))
	if err != nil {
		panic(err)
	}
	fmt.Println(rep.Placed+rep.Dropped == rep.Stars, rep.Seed)
	// Output: true 42
}
