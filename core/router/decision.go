package router

// Decision is the routing outcome consumed by the server loop. Exactly one
// of the concrete types below is returned per request.
type Decision interface {
	isDecision()
}

// ServeStatic instructs the server to serve the filesystem entry at Path.
// Path may be a directory; DefaultFile and Autoindex tell the server how to
// answer in that case (default file, generated listing, or 403).
type ServeStatic struct {
	Path        string
	URLPath     string
	DefaultFile string
	Autoindex   bool
}

// InvokeCGI instructs the server to execute Program with Dir as working
// directory. ScriptName is the matched route pattern and PathInfo the full
// request path; both feed the CGI environment.
type InvokeCGI struct {
	Program    string
	Dir        string
	ScriptName string
	PathInfo   string
}

// SaveUpload instructs the server to store the request body under Dir.
// URLPrefix is the matched route pattern, used to build the Location of a
// stored file.
type SaveUpload struct {
	Dir       string
	URLPrefix string
}

// RemoveFile instructs the server to delete the uploaded file at Path.
type RemoveFile struct {
	Path string
}

// Redirect instructs the server to answer with a Location header.
type Redirect struct {
	Location string
	Status   int
}

// ServeError instructs the server to answer with the error page for Status.
type ServeError struct {
	Status int
}

func (ServeStatic) isDecision() {}
func (InvokeCGI) isDecision()   {}
func (SaveUpload) isDecision()  {}
func (RemoveFile) isDecision()  {}
func (Redirect) isDecision()    {}
func (ServeError) isDecision()  {}
