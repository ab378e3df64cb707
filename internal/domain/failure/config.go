package failure

// Misuse of the library surfaces immediately as one of these.
var (
	ErrNilContext    = &Error{Kind: KindConfiguration, Op: "wait", Err: errString("context must not be nil")}
	ErrNilCondition  = &Error{Kind: KindConfiguration, Op: "wait", Err: errString("condition must not be nil")}
	ErrResultType    = &Error{Kind: KindConfiguration, Op: "wait", Err: errString("condition result must be bool or a reference type")}
	ErrInvalidKind   = &Error{Kind: KindConfiguration, Op: "wait", Err: errString("unknown failure kind")}
	ErrNilLocator    = &Error{Kind: KindConfiguration, Op: "query", Err: errString("locator must not be empty")}
	ErrNilProvider   = &Error{Kind: KindConfiguration, Op: "query", Err: errString("element provider must not be nil")}
	ErrInvalidCount  = &Error{Kind: KindConfiguration, Op: "query", Err: errString("expected count must be positive or -1")}
	ErrNilPredicate  = &Error{Kind: KindConfiguration, Op: "query", Err: errString("condition predicate must not be nil")}
	ErrInvalidPeriod = &Error{Kind: KindConfiguration, Op: "wait", Err: errString("timeout must not be negative")}
)

type errString string

func (e errString) Error() string { return string(e) }
