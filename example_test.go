package memspeed_test

import (
	"fmt"

	"github.com/hupe1980/memspeed"
)

func ExampleParseScale() {
	scale, err := memspeed.ParseScale("3")
	fmt.Println(scale, err)

	scale, err = memspeed.ParseScale("zero")
	fmt.Println(scale, err != nil)
	// Output:
	// 3 <nil>
	// 1 true
}

func ExampleFormatMillis() {
	fmt.Println(memspeed.FormatMillis(1234.56789))
	// Output: 1234.568
}
