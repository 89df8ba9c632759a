package timezone

var Resolve = resolve
