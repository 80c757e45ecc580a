package environment

import (
	"context"
	"io/ioutil"
	"os"

	"github.com/rotisserie/eris"
	"go.starlark.net/starlark"

	"github.com/CapyTheBeara/devcaddy/pkg"
)

// loadStarlark executes an environment script and calls its environment(name) function.
//
//	def environment(name):
//	    env = {"modulePrefix": "myapp", "baseURL": "/", "locationType": "auto"}
//	    if name == "production":
//	        env["baseURL"] = getenv("BASE_URL", "/app/")
//	    return env
func loadStarlark(ctx context.Context, filename, name string) (*Config, error) {
	script, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read %s", filename)
	}

	thread := &starlark.Thread{
		Name: "environment",
		Print: func(thread *starlark.Thread, msg string) {
			pkg.Log(ctx).Info().Str("thread", thread.Name).Msg(msg)
		},
	}

	builtins := starlark.StringDict{
		"ENVIRONMENT": starlark.String(name),
		"getenv":      starlark.NewBuiltin("getenv", getenv),
	}

	globals, err := starlark.ExecFile(thread, filename, script, builtins)
	if err != nil {
		if evalError, ok := err.(*starlark.EvalError); ok {
			return nil, eris.Errorf("failed to execute %s:\n%s", filename, evalError.Backtrace())
		}
		return nil, eris.Wrapf(err, "failed to execute %s", filename)
	}

	envFunc, ok := globals["environment"]
	if !ok {
		return nil, eris.Errorf("%s did not declare an environment function", filename)
	}

	callable, ok := envFunc.(starlark.Callable)
	if !ok {
		return nil, eris.Errorf("%s did declare an environment value but it's not a function", filename)
	}

	result, err := starlark.Call(thread, callable, starlark.Tuple{starlark.String(name)}, nil)
	if err != nil {
		if evalError, ok := err.(*starlark.EvalError); ok {
			return nil, eris.New(evalError.Backtrace())
		}
		return nil, eris.Wrapf(err, "failed environment call in %s", filename)
	}

	dict, ok := result.(*starlark.Dict)
	if !ok {
		return nil, eris.Wrapf(ErrNotAMapping, "environment() in %s returned %s", filename, result.Type())
	}

	value, err := starlarkToInterface(dict, map[starlark.Value]bool{})
	if err != nil {
		return nil, err
	}

	return value.(*Config), nil
}

func getenv(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var key string
	var defaultValue string

	err := starlark.UnpackArgs(fn.Name(), args, kwargs, "key", &key, "default?", &defaultValue)
	if err != nil {
		return nil, err
	}

	value, ok := os.LookupEnv(key)
	if !ok {
		value = defaultValue
	}

	return starlark.String(value), nil
}

// starlarkToInterface converts a Starlark value into the representation used by Config.
// seen holds the containers currently being converted and is used to detect cycles.
func starlarkToInterface(value starlark.Value, seen map[starlark.Value]bool) (interface{}, error) {
	switch value := value.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Bool:
		return bool(value), nil
	case starlark.Int:
		if i, ok := value.Int64(); ok {
			return i, nil
		}
		return value.BigInt(), nil
	case starlark.Float:
		return float64(value), nil
	case starlark.String:
		return value.GoString(), nil
	case starlark.Tuple:
		return starlarkIterToSlice(value, seen)
	case *starlark.List:
		if seen[value] {
			return unsupportedValue{kind: "cyclic"}, nil
		}
		seen[value] = true
		defer delete(seen, value)

		return starlarkIterToSlice(value, seen)
	case *starlark.Dict:
		if seen[value] {
			return unsupportedValue{kind: "cyclic"}, nil
		}
		seen[value] = true
		defer delete(seen, value)

		cfg := New()
		for _, item := range value.Items() {
			key, ok := item[0].(starlark.String)
			if !ok {
				return nil, eris.Errorf("found key type %s in environment dict but only strings are supported", item[0].Type())
			}

			converted, err := starlarkToInterface(item[1], seen)
			if err != nil {
				return nil, err
			}
			cfg.Set(key.GoString(), converted)
		}
		return cfg, nil
	case starlark.Callable:
		return unsupportedValue{kind: "function"}, nil
	}

	return unsupportedValue{kind: value.Type()}, nil
}

type starlarkIterable interface {
	Len() int
	Iterate() starlark.Iterator
}

func starlarkIterToSlice(input starlarkIterable, seen map[starlark.Value]bool) ([]interface{}, error) {
	result := make([]interface{}, 0, input.Len())
	iter := input.Iterate()
	defer iter.Done()

	var item starlark.Value
	for iter.Next(&item) {
		converted, err := starlarkToInterface(item, seen)
		if err != nil {
			return nil, err
		}
		result = append(result, converted)
	}
	return result, nil
}
