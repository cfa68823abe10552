package lispy

import (
	"fmt"
	"io"
	"os"

	gmsgp "github.com/glycerine/greenpack/msgp"
)

// (bsave path) writes the user's global bindings to a new file.
// (bload path) binds everything in such a file into the global scope.

func WriteImageToFileFunction(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
	fn, err := pathArg(name, args)
	if err != nil {
		return nil, err
	}

	// don't overwrite existing file
	if FileExists(fn) {
		return nil, fmt.Errorf("error: %s refusing to write to existing file '%s'", name, fn)
	}

	img := CaptureImage(env)
	err = writeNewFile(fn, img.Write)
	if err != nil {
		return nil, fmt.Errorf("error: %s writing file '%s' sees error '%v'", name, fn, err)
	}
	env.Log.WithField("file", fn).WithField("bindings", len(img.Bindings)).Debug("bsave")
	return MakeNum(int64(len(img.Bindings))), nil
}

func ReadImageFromFileFunction(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
	fn, err := pathArg(name, args)
	if err != nil {
		return nil, err
	}
	if !FileExists(fn) {
		return nil, fmt.Errorf("file '%s' does not exist", fn)
	}
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := ReadImage(f)
	if err != nil {
		return nil, fmt.Errorf("error: %s reading '%s': %v", name, fn, err)
	}
	if err := img.Install(env); err != nil {
		return nil, err
	}
	env.Log.WithField("file", fn).WithField("bindings", len(img.Bindings)).Debug("bload")
	return MakeNum(int64(len(img.Bindings))), nil
}

func pathArg(name string, args []Sexp) (string, error) {
	if len(args) != 1 {
		return "", wrongNargs(name, len(args), 1)
	}
	s, isStr := args[0].(*SexpStr)
	if !isStr {
		return "", typeMismatch(name, 0, args[0], StringTypeName)
	}
	return s.S, nil
}

func FileExists(name string) bool {
	fi, err := os.Stat(name)
	if err != nil {
		return false
	}
	return !fi.IsDir()
}

// writeNewFile creates fn, which must not exist, and fills it with
// fill. On any failure the partial file is removed so a retry can
// create it again.
func writeNewFile(fn string, fill func(w io.Writer) error) (err error) {
	f, err := os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	defer func() {
		cerr := f.Close()
		if err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(fn)
		}
	}()
	return fill(f)
}

// Write streams img to w.
func (img *Image) Write(w io.Writer) error {
	mw := gmsgp.NewWriter(w)
	if err := img.EncodeMsg(mw); err != nil {
		return err
	}
	return mw.Flush()
}

func ReadImage(r io.Reader) (*Image, error) {
	img := &Image{}
	if err := img.DecodeMsg(gmsgp.NewReader(r)); err != nil {
		return nil, err
	}
	return img, nil
}

// EncodeMsg writes the same layout MarshalMsg produces.
func (img *Image) EncodeMsg(w *gmsgp.Writer) error {
	if err := w.WriteMapHeader(2); err != nil {
		return err
	}
	if err := w.WriteString("version"); err != nil {
		return err
	}
	if err := w.WriteInt64(img.Version); err != nil {
		return err
	}
	if err := w.WriteString("bindings"); err != nil {
		return err
	}
	return encodeBindings(w, img.Bindings)
}

func encodeBindings(w *gmsgp.Writer, bs []*ImageBinding) error {
	if err := w.WriteArrayHeader(uint32(len(bs))); err != nil {
		return err
	}
	for _, b := range bs {
		if err := w.WriteMapHeader(2); err != nil {
			return err
		}
		if err := w.WriteString("n"); err != nil {
			return err
		}
		if err := w.WriteString(b.Name); err != nil {
			return err
		}
		if err := w.WriteString("v"); err != nil {
			return err
		}
		if err := encodeValue(w, b.Val); err != nil {
			return err
		}
	}
	return nil
}

func encodeValue(w *gmsgp.Writer, iv *ImageValue) error {
	if err := w.WriteMapHeader(4); err != nil {
		return err
	}
	for _, kv := range [][2]string{{"k", iv.Kind}, {"t", iv.Text}} {
		if err := w.WriteString(kv[0]); err != nil {
			return err
		}
		if err := w.WriteString(kv[1]); err != nil {
			return err
		}
	}
	if err := w.WriteString("i"); err != nil {
		return err
	}
	if err := w.WriteArrayHeader(uint32(len(iv.Items))); err != nil {
		return err
	}
	for _, it := range iv.Items {
		if err := encodeValue(w, it); err != nil {
			return err
		}
	}
	if err := w.WriteString("s"); err != nil {
		return err
	}
	return encodeBindings(w, iv.Scope)
}

func (img *Image) DecodeMsg(r *gmsgp.Reader) error {
	sz, err := r.ReadMapHeader()
	if err != nil {
		return err
	}
	for ; sz > 0; sz-- {
		key, err := r.ReadString()
		if err != nil {
			return err
		}
		switch key {
		case "version":
			img.Version, err = r.ReadInt64()
		case "bindings":
			img.Bindings, err = decodeBindings(r)
		default:
			err = r.Skip()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func decodeBindings(r *gmsgp.Reader) ([]*ImageBinding, error) {
	n, err := r.ReadArrayHeader()
	if err != nil {
		return nil, err
	}
	var bs []*ImageBinding
	for ; n > 0; n-- {
		sz, err := r.ReadMapHeader()
		if err != nil {
			return nil, err
		}
		b := &ImageBinding{}
		for ; sz > 0; sz-- {
			key, err := r.ReadString()
			if err != nil {
				return nil, err
			}
			switch key {
			case "n":
				b.Name, err = r.ReadString()
			case "v":
				b.Val, err = decodeValue(r)
			default:
				err = r.Skip()
			}
			if err != nil {
				return nil, err
			}
		}
		if b.Val == nil {
			return nil, fmt.Errorf("image: binding '%s' has no value", b.Name)
		}
		bs = append(bs, b)
	}
	return bs, nil
}

func decodeValue(r *gmsgp.Reader) (*ImageValue, error) {
	sz, err := r.ReadMapHeader()
	if err != nil {
		return nil, err
	}
	iv := &ImageValue{}
	for ; sz > 0; sz-- {
		key, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		switch key {
		case "k":
			iv.Kind, err = r.ReadString()
		case "t":
			iv.Text, err = r.ReadString()
		case "i":
			var n uint32
			n, err = r.ReadArrayHeader()
			for ; err == nil && n > 0; n-- {
				var it *ImageValue
				it, err = decodeValue(r)
				iv.Items = append(iv.Items, it)
			}
		case "s":
			iv.Scope, err = decodeBindings(r)
		default:
			err = r.Skip()
		}
		if err != nil {
			return nil, err
		}
	}
	return iv, nil
}
