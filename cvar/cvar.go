// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"log"
	"strconv"

	"github.com/pkg/errors"
)

var (
	ErrAlreadyDefined = errors.New("cvar already defined")
	ErrNotFound       = errors.New("cvar not found")
)

type flag uint64

const (
	// cvar flags bitfield
	NONE   flag = 0
	NOTIFY flag = 1 << 1
)

type CallbackFunc func(cv *Cvar)

type Cvar struct {
	notify   bool
	callback CallbackFunc
	name     string
	// stringValue is the truth, value the derived one
	stringValue  string
	value        float64
	defaultValue string
}

func (cv *Cvar) SetCallback(cb CallbackFunc) {
	cv.callback = cb
}

func (cv *Cvar) SetByString(s string) {
	cv.stringValue = s
	pf, _ := strconv.ParseFloat(cv.stringValue, 64)
	cv.value = pf
	if cv.notify {
		log.Printf("%q changed to %q", cv.name, s)
	}
	if cv.callback != nil {
		cv.callback(cv)
	}
}

func (cv *Cvar) Reset() {
	cv.SetByString(cv.defaultValue)
}

func (cv *Cvar) String() string {
	return cv.stringValue
}

func (cv *Cvar) Name() string {
	return cv.name
}

func (cv *Cvar) Value() float64 {
	return cv.value
}

func (cv *Cvar) SetValue(value float64) {
	if float64(int64(value)) == value {
		cv.SetByString(strconv.FormatInt(int64(value), 10))
	} else {
		cv.SetByString(strconv.FormatFloat(value, 'f', -1, 64))
	}
}

// Registry holds named variables in registration order.
type Registry struct {
	cvarArray  []*Cvar
	cvarByName map[string]*Cvar
}

func NewRegistry() *Registry {
	return &Registry{cvarByName: make(map[string]*Cvar)}
}

func (r *Registry) All() []*Cvar {
	return r.cvarArray
}

func (r *Registry) Get(name string) (*Cvar, bool) {
	cv, ok := r.cvarByName[name]
	return cv, ok
}

func (r *Registry) Register(name, value string, flags flag) (*Cvar, error) {
	if _, ok := r.cvarByName[name]; ok {
		return nil, errors.Wrapf(ErrAlreadyDefined, "can't register variable %s", name)
	}
	cv := &Cvar{
		name:         name,
		defaultValue: value,
		notify:       flags&NOTIFY != 0,
	}
	// no callback is attached yet, registration must not notify
	cv.stringValue = value
	cv.value, _ = strconv.ParseFloat(value, 64)
	r.cvarArray = append(r.cvarArray, cv)
	r.cvarByName[name] = cv
	return cv, nil
}

func (r *Registry) MustRegister(n, v string, flag flag) *Cvar {
	cv, err := r.Register(n, v, flag)
	if err != nil {
		log.Panic(err)
	}
	return cv
}

// Set assigns value to the variable called name.
func (r *Registry) Set(name, value string) error {
	cv, ok := r.Get(name)
	if !ok {
		return errors.Wrapf(ErrNotFound, "set %s", name)
	}
	cv.SetByString(value)
	return nil
}

func (r *Registry) ResetAll() {
	for _, cv := range r.All() {
		cv.Reset()
	}
}
