package cerr

import (
	"github.com/apex/log"
	"github.com/cockroachdb/errors"
)

type F = map[string]any

// Context accumulates structured fields and an optional cause before an error is built.
type Context struct {
	fields F
	cause  error
}

type fieldsError struct {
	cause  error
	fields F
}

func (f *fieldsError) Error() string { return f.cause.Error() }
func (f *fieldsError) Unwrap() error { return f.cause }

func Field(key string, value any) Context {
	return Context{}.Field(key, value)
}

func Fields(fields F) Context {
	return Context{}.Fields(fields)
}

func Wrap(err error) Context {
	return Context{}.Wrap(err)
}

func Error(msg string) error {
	return Context{}.Error(msg)
}

func (c Context) Field(key string, value any) Context {
	return c.Fields(F{key: value})
}

func (c Context) Fields(fields F) Context {
	merged := F{}
	for k, v := range c.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return Context{
		fields: merged,
		cause:  c.cause,
	}
}

func (c Context) Wrap(err error) Context {
	return Context{
		fields: c.fields,
		cause:  err,
	}
}

func (c Context) Error(msg string) error {
	var err error
	if c.cause != nil {
		err = errors.WrapWithDepth(1, c.cause, msg)
	} else {
		err = errors.NewWithDepth(1, msg)
	}

	if len(c.fields) == 0 {
		return err
	}

	return &fieldsError{
		cause:  err,
		fields: c.fields,
	}
}

// CollectFields merges every field attached anywhere along the error chain.
// Fields closer to the top of the chain win.
func CollectFields(err error) F {
	collected := F{}
	for err != nil {
		if fe, ok := err.(*fieldsError); ok {
			for k, v := range fe.fields {
				if _, exists := collected[k]; !exists {
					collected[k] = v
				}
			}
		}
		err = errors.UnwrapOnce(err)
	}

	return collected
}

func Log(err error) {
	if err == nil {
		return
	}

	log.WithFields(log.Fields(CollectFields(err))).
		WithError(err).
		Error("Error occurred")
}
