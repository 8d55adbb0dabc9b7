package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pavanmanishd/handlepool"
)

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Replay the insert/free/reuse and recycle scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			reuseDemo(out)
			fmt.Fprintln(out)
			recycleDemo(out)
			return nil
		},
	}
}

func printActive(out io.Writer, p *handlepool.Pool[int]) {
	for h, v := range p.All() {
		fmt.Fprintf(out, "  [%d@%d] %d\n", h.Index(), h.Revision(), *v)
	}
}

func reuseDemo(out io.Writer) {
	p := handlepool.New[int]()
	first := p.Insert(17)
	second := p.Insert(25)

	fmt.Fprintln(out, "after inserting 17 and 25:")
	printActive(out, p)

	p.Free(second)
	fmt.Fprintln(out, "after freeing 25:")
	printActive(out, p)

	third := p.Insert(2)
	fmt.Fprintln(out, "after inserting 2:")
	printActive(out, p)

	fmt.Fprintf(out, "first %s valid=%v\n", first, p.IsValid(first))
	fmt.Fprintf(out, "second %s valid=%v\n", second, p.IsValid(second))
	fmt.Fprintf(out, "third %s valid=%v\n", third, p.IsValid(third))
}

func recycleDemo(out io.Writer) {
	p := handlepool.New[int]()
	p.Insert(17)
	second := p.Insert(25)
	p.Free(second)

	third := p.Recycle()
	fmt.Fprintf(out, "recycled %s holds %d\n", third, p.Value(third))

	*p.Get(third) = 12
	fmt.Fprintf(out, "after write through handle, slot 1 holds %d\n", *p.At(1))
	fmt.Fprintf(out, "second %s valid=%v\n", second, p.IsValid(second))
}
