package calls

// Python built-in functions and types, as enumerated from CPython's builtins
// module (builtin functions plus classes; singletons like help/exit are not
// callables of interest and are omitted). Initialized once at package load
// and immutable afterwards, so reads need no locking.
var builtinNames = make(map[string]struct{}, len(builtinList))

func init() {
	for _, name := range builtinList {
		builtinNames[name] = struct{}{}
	}
}

// IsBuiltin reports whether name is a Python built-in function or type.
func IsBuiltin(name string) bool {
	_, ok := builtinNames[name]
	return ok
}

var builtinList = []string{
	// functions
	"__build_class__", "__import__",
	"abs", "aiter", "all", "anext", "any", "ascii", "bin", "breakpoint",
	"callable", "chr", "compile", "delattr", "dir", "divmod", "eval", "exec",
	"format", "getattr", "globals", "hasattr", "hash", "hex", "id", "input",
	"isinstance", "issubclass", "iter", "len", "locals", "max", "min", "next",
	"oct", "open", "ord", "pow", "print", "repr", "round", "setattr", "sorted",
	"sum", "vars",
	// types
	"bool", "bytearray", "bytes", "classmethod", "complex", "dict",
	"enumerate", "filter", "float", "frozenset", "int", "list", "map",
	"memoryview", "object", "property", "range", "reversed", "set", "slice",
	"staticmethod", "str", "super", "tuple", "type", "zip",
	// exceptions
	"ArithmeticError", "AssertionError", "AttributeError", "BaseException",
	"BaseExceptionGroup", "BlockingIOError", "BrokenPipeError", "BufferError",
	"BytesWarning", "ChildProcessError", "ConnectionAbortedError",
	"ConnectionError", "ConnectionRefusedError", "ConnectionResetError",
	"DeprecationWarning", "EOFError", "EncodingWarning", "EnvironmentError",
	"Exception", "ExceptionGroup", "FileExistsError", "FileNotFoundError",
	"FloatingPointError", "FutureWarning", "GeneratorExit", "IOError",
	"ImportError", "ImportWarning", "IndentationError", "IndexError",
	"InterruptedError", "IsADirectoryError", "KeyError", "KeyboardInterrupt",
	"LookupError", "MemoryError", "ModuleNotFoundError", "NameError",
	"NotADirectoryError", "NotImplementedError", "OSError", "OverflowError",
	"PendingDeprecationWarning", "PermissionError", "ProcessLookupError",
	"RecursionError", "ReferenceError", "ResourceWarning", "RuntimeError",
	"RuntimeWarning", "StopAsyncIteration", "StopIteration", "SyntaxError",
	"SyntaxWarning", "SystemError", "SystemExit", "TabError", "TimeoutError",
	"TypeError", "UnboundLocalError", "UnicodeDecodeError",
	"UnicodeEncodeError", "UnicodeError", "UnicodeTranslateError",
	"UnicodeWarning", "UserWarning", "ValueError", "Warning",
	"ZeroDivisionError",
}
