// Command sum is a sample plugin. Build it with
//
//	go build -buildmode=plugin -o sum.so ./example/plugins/sum
//
// and load it with pluginhost call sum 1 2 --plugin ./sum.so.
package main

import (
	"github.com/snowmerak/nativeplug/lib/plugin"
)

// PluginDeclaration is looked up by the host after the library is opened.
var PluginDeclaration = plugin.Declaration{
	ABIVersion: plugin.ABIVersion,
	Name:       "sum",
	Version:    "v1.0.0",
	Register:   register,
}

func register(r plugin.Registrar) {
	r.Register("sum", plugin.NewCallable(sum, "sum(a, b, ...) returns the total of its arguments, 0 for none"))
	r.Register("mean", plugin.NewCallable(mean, "mean(a, b, ...) returns the arithmetic mean of at least one argument"))
}

func sum(ctx plugin.Context, args []plugin.Value) ([]plugin.Value, error) {
	var total float64
	for _, a := range args {
		total += a.Number
	}

	ctx.Logger().Debug().Int("args", len(args)).Float64("total", total).Msg("sum")
	return plugin.Values(total), nil
}

func mean(ctx plugin.Context, args []plugin.Value) ([]plugin.Value, error) {
	if len(args) == 0 {
		return nil, plugin.Failed("mean needs at least one argument")
	}

	total, _ := sum(ctx, args)
	return plugin.Values(total[0].Number / float64(len(args))), nil
}

func main() {}
