// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build windows

package engine

import (
	"errors"
	"fmt"
	"runtime"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

const powerPointSupported = true

const (
	msoFalse = 0
	// sFalse is returned by CoInitializeEx when COM is already initialised
	// on this thread; it still needs a matching CoUninitialize.
	sFalse = 1
)

// oleHost drives PowerPoint.Application. COM objects are bound to the OS
// thread that created them, so the goroutine stays locked from connect
// until Quit.
type oleHost struct {
	app           *ole.IDispatch
	presentations *ole.IDispatch
}

func connectPowerPoint() (automationHost, error) {
	runtime.LockOSThread()
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oerr *ole.OleError
		if !errors.As(err, &oerr) || oerr.Code() != sFalse {
			runtime.UnlockOSThread()
			return nil, fmt.Errorf("initialising COM: %w", err)
		}
	}

	h, err := newOLEHost()
	if err != nil {
		ole.CoUninitialize()
		runtime.UnlockOSThread()
		return nil, err
	}
	return h, nil
}

func newOLEHost() (*oleHost, error) {
	unknown, err := oleutil.CreateObject("PowerPoint.Application")
	if err != nil {
		return nil, fmt.Errorf("creating PowerPoint.Application: %w", err)
	}
	defer unknown.Release()

	app, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, fmt.Errorf("querying IDispatch: %w", err)
	}

	v, err := oleutil.GetProperty(app, "Presentations")
	if err != nil {
		oleutil.CallMethod(app, "Quit")
		app.Release()
		return nil, fmt.Errorf("getting Presentations: %w", err)
	}
	return &oleHost{app: app, presentations: v.ToIDispatch()}, nil
}

func (h *oleHost) Open(path string) (automationDoc, error) {
	// Open(FileName, ReadOnly, Untitled, WithWindow)
	v, err := oleutil.CallMethod(h.presentations, "Open", path, msoFalse, msoFalse, msoFalse)
	if err != nil {
		return nil, err
	}
	return &oleDoc{doc: v.ToIDispatch()}, nil
}

func (h *oleHost) Quit() error {
	defer runtime.UnlockOSThread()
	defer ole.CoUninitialize()

	h.presentations.Release()
	_, err := oleutil.CallMethod(h.app, "Quit")
	h.app.Release()
	return err
}

type oleDoc struct {
	doc *ole.IDispatch
}

func (d *oleDoc) SaveAs(path string, format int) error {
	_, err := oleutil.CallMethod(d.doc, "SaveAs", path, format)
	return err
}

func (d *oleDoc) Close() error {
	_, err := oleutil.CallMethod(d.doc, "Close")
	d.doc.Release()
	return err
}
