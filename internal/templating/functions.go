package templating

import (
	"github.com/kballard/go-shellquote"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// QuoteFunc quotes its argument as a single POSIX shell word.
var QuoteFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "str", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(shellquote.Join(args[0].AsString())), nil
	},
})
