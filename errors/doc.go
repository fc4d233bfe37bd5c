/*
Package errors provides the error taxonomy of the docstore client.

Every failure the facade reports maps to one sentinel, checked with the standard
errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrConnection             = errors.New("backend connection failed")
	    ErrUnsupportedPolicyValue = errors.New("unsupported policy value")
	    ErrMissingPartitionKey    = errors.New("missing partition key")
	    ErrNotFound               = errors.New("resource not found")
	    ErrAlreadyExists          = errors.New("resource already exists")
	    ErrBackendFailure         = errors.New("backend failure")
	    ErrCancelled              = errors.New("operation cancelled")
	    ErrInvalidInput           = errors.New("invalid input")
	)

Usage:

	ok, err := docstore.Replace(ctx, client, "db", "companies", doc)
	if err != nil {
	    if errors.IsNotFound(err) {
	        // the item was deleted in the meantime
	    }
	    var se *errors.StatusError
	    if stderrors.As(err, &se) {
	        log.Printf("backend status %d", se.Code)
	    }
	}

StatusError keeps the backend's raw status code. A 404 matches ErrNotFound, a 409
matches both ErrAlreadyExists and ErrBackendFailure, everything else matches
ErrBackendFailure only.
*/
package errors
