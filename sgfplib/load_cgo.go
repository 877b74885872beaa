//go:build secugen && cgo

package sgfplib

/*
#cgo CFLAGS: -I/opt/secugen-sdk/include
#cgo LDFLAGS: -ldl

#include <dlfcn.h>
#include <stdlib.h>
#include <string.h>
#include "sgfplib.h"

typedef DWORD (*fps_create_fn)(HSGFPM*);
typedef DWORD (*fps_dword_fn)(HSGFPM, DWORD);
typedef DWORD (*fps_void_fn)(HSGFPM);
typedef DWORD (*fps_info_fn)(HSGFPM, SGDeviceInfoParam*);
typedef DWORD (*fps_image_fn)(HSGFPM, BYTE*, DWORD, void*, DWORD);
typedef DWORD (*fps_quality_fn)(HSGFPM, DWORD, DWORD, BYTE*, DWORD*);
typedef DWORD (*fps_template_fn)(HSGFPM, SGFingerInfo*, BYTE*, BYTE*);
typedef DWORD (*fps_format_fn)(HSGFPM, WORD);
typedef DWORD (*fps_match_fn)(HSGFPM, BYTE*, BYTE*, DWORD, BOOL*);

typedef struct {
	void*           dl;
	HSGFPM          h;
	fps_create_fn   create;
	fps_dword_fn    init;
	fps_dword_fn    open_device;
	fps_void_fn     close_device;
	fps_void_fn     terminate;
	fps_info_fn     device_info;
	fps_image_fn    image_ex;
	fps_quality_fn  image_quality;
	fps_template_fn create_template;
	fps_format_fn   template_format;
	fps_match_fn    match_template;
} fps_lib;

static int fps_load(fps_lib* l, const char* path) {
	memset(l, 0, sizeof(*l));
	l->dl = dlopen(path, RTLD_NOW | RTLD_LOCAL);
	if (l->dl == NULL) {
		return -1;
	}
	l->create          = (fps_create_fn)dlsym(l->dl, "SGFPM_Create");
	l->init            = (fps_dword_fn)dlsym(l->dl, "SGFPM_Init");
	l->open_device     = (fps_dword_fn)dlsym(l->dl, "SGFPM_OpenDevice");
	l->close_device    = (fps_void_fn)dlsym(l->dl, "SGFPM_CloseDevice");
	l->terminate       = (fps_void_fn)dlsym(l->dl, "SGFPM_Terminate");
	l->device_info     = (fps_info_fn)dlsym(l->dl, "SGFPM_GetDeviceInfo");
	l->image_ex        = (fps_image_fn)dlsym(l->dl, "SGFPM_GetImageEx");
	l->image_quality   = (fps_quality_fn)dlsym(l->dl, "SGFPM_GetImageQuality");
	l->create_template = (fps_template_fn)dlsym(l->dl, "SGFPM_CreateTemplate");
	l->template_format = (fps_format_fn)dlsym(l->dl, "SGFPM_SetTemplateFormat");
	l->match_template  = (fps_match_fn)dlsym(l->dl, "SGFPM_MatchTemplate");
	if (!l->create || !l->init || !l->open_device || !l->close_device ||
	    !l->terminate || !l->device_info || !l->image_ex || !l->image_quality ||
	    !l->create_template || !l->template_format || !l->match_template) {
		dlclose(l->dl);
		l->dl = NULL;
		return -2;
	}
	return 0;
}

static const char* fps_dlerror(void) {
	const char* msg = dlerror();
	return msg ? msg : "unknown dlopen error";
}

static DWORD fps_create(fps_lib* l) { return l->create(&l->h); }
static DWORD fps_init(fps_lib* l, DWORD dev) { return l->init(l->h, dev); }
static DWORD fps_open(fps_lib* l, DWORD id) { return l->open_device(l->h, id); }
static DWORD fps_close(fps_lib* l) { return l->close_device(l->h); }

static DWORD fps_terminate(fps_lib* l) {
	DWORD r = 0;
	if (l->h != NULL) {
		r = l->terminate(l->h);
		l->h = NULL;
	}
	if (l->dl != NULL) {
		dlclose(l->dl);
		l->dl = NULL;
	}
	return r;
}

static DWORD fps_device_info(fps_lib* l, DWORD* width, DWORD* height) {
	SGDeviceInfoParam info;
	memset(&info, 0, sizeof(info));
	DWORD r = l->device_info(l->h, &info);
	*width = info.ImageWidth;
	*height = info.ImageHeight;
	return r;
}

static DWORD fps_image_ex(fps_lib* l, BYTE* buf, DWORD timeout, DWORD quality) {
	return l->image_ex(l->h, buf, timeout, NULL, quality);
}

static DWORD fps_image_quality(fps_lib* l, DWORD w, DWORD h, BYTE* img, DWORD* quality) {
	return l->image_quality(l->h, w, h, img, quality);
}

static DWORD fps_create_template(fps_lib* l, BYTE* img, BYTE* tmpl) {
	return l->create_template(l->h, NULL, img, tmpl);
}

static DWORD fps_template_format(fps_lib* l, WORD format) {
	return l->template_format(l->h, format);
}

static DWORD fps_match(fps_lib* l, BYTE* t1, BYTE* t2, DWORD level, int* matched) {
	BOOL m = 0;
	DWORD r = l->match_template(l->h, t1, t2, level, &m);
	*matched = m ? 1 : 0;
	return r;
}
*/
import "C"

import (
	"fmt"
	"time"
	"unsafe"
)

type nativeLibrary struct {
	l *C.fps_lib
}

// Load dlopens the SDK shared library at path and resolves its entry points.
func Load(path string) (Library, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	l := (*C.fps_lib)(C.calloc(1, C.size_t(unsafe.Sizeof(C.fps_lib{}))))
	switch C.fps_load(l, cpath) {
	case 0:
		return &nativeLibrary{l: l}, nil
	case -1:
		msg := C.GoString(C.fps_dlerror())
		C.free(unsafe.Pointer(l))
		return nil, fmt.Errorf("%w: %s", ErrLoad, msg)
	default:
		C.free(unsafe.Pointer(l))
		return nil, fmt.Errorf("%w: %s: missing SGFPM entry points", ErrLoad, path)
	}
}

func bytePtr(b []byte) *C.BYTE {
	if len(b) == 0 {
		return nil
	}
	return (*C.BYTE)(unsafe.Pointer(&b[0]))
}

func (n *nativeLibrary) Create() Status {
	return Status(C.fps_create(n.l))
}

func (n *nativeLibrary) Init(dev DeviceName) Status {
	return Status(C.fps_init(n.l, C.DWORD(dev)))
}

func (n *nativeLibrary) OpenDevice(id int) Status {
	return Status(C.fps_open(n.l, C.DWORD(id)))
}

func (n *nativeLibrary) DeviceInfo() (DeviceInfo, Status) {
	var w, h C.DWORD
	s := Status(C.fps_device_info(n.l, &w, &h))
	return DeviceInfo{Width: int(w), Height: int(h)}, s
}

func (n *nativeLibrary) CloseDevice() Status {
	return Status(C.fps_close(n.l))
}

func (n *nativeLibrary) GetImageEx(buf []byte, timeout time.Duration, quality int) Status {
	return Status(C.fps_image_ex(n.l, bytePtr(buf), C.DWORD(timeout.Milliseconds()), C.DWORD(quality)))
}

func (n *nativeLibrary) ImageQuality(width, height int, img []byte) (int, Status) {
	var q C.DWORD
	s := Status(C.fps_image_quality(n.l, C.DWORD(width), C.DWORD(height), bytePtr(img), &q))
	return int(q), s
}

func (n *nativeLibrary) CreateTemplate(img []byte, tmpl []byte) Status {
	if len(tmpl) < TemplateSize {
		return ErrorInvalidParam
	}
	return Status(C.fps_create_template(n.l, bytePtr(img), bytePtr(tmpl)))
}

func (n *nativeLibrary) SetTemplateFormat(format TemplateFormat) Status {
	return Status(C.fps_template_format(n.l, C.WORD(format)))
}

func (n *nativeLibrary) MatchTemplate(t1, t2 []byte, securityLevel int) (bool, Status) {
	if len(t1) < TemplateSize || len(t2) < TemplateSize {
		return false, ErrorInvalidParam
	}
	var matched C.int
	s := Status(C.fps_match(n.l, bytePtr(t1), bytePtr(t2), C.DWORD(securityLevel), &matched))
	return matched != 0, s
}

func (n *nativeLibrary) Terminate() Status {
	s := Status(C.fps_terminate(n.l))
	C.free(unsafe.Pointer(n.l))
	n.l = nil
	return s
}
