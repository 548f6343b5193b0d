package main

// This command compares a document written by tfpdf with the same document
// rewritten by ghostscript for screen use. The font subset tfpdf embeds is
// usually already smaller than what ghostscript keeps.
//
//	go run ./contrib/ghostscript path/to/font.ttf

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/tinywasm/tfpdf"
)

func report(fileStr string, err error) {
	if err == nil {
		var info os.FileInfo
		info, err = os.Stat(fileStr)
		if err == nil {
			fmt.Printf("%s: OK, size %d\n", fileStr, info.Size())
		} else {
			fmt.Printf("%s: bad stat\n", fileStr)
		}
	} else {
		fmt.Printf("%s: %s\n", fileStr, err)
	}
}

func newPdf(fontPath string) *tfpdf.TFPDF {
	tp := tfpdf.New()
	pdf := tp.Fpdf
	pdf.AddUTF8Font("sample", "", fontPath)
	pdf.AddPage()
	pdf.SetFont("sample", "", 35)
	pdf.Text(10, 30, "Enjoy subset fonts!")
	return tp
}

func full(name, fontPath string) {
	report(name, newPdf(fontPath).Fpdf.OutputFileAndClose(name))
}

func min(name, fontPath string) {
	cmd := exec.Command("gs", "-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS=/screen", "-dNOPAUSE", "-dQUIET",
		"-dBATCH", "-sOutputFile="+name, "-")
	inPipe, err := cmd.StdinPipe()
	if err != nil {
		report(name, err)
		return
	}
	if err = cmd.Start(); err != nil {
		report(name, err)
		return
	}
	err = newPdf(fontPath).Fpdf.Output(inPipe)
	inPipe.Close()
	if waitErr := cmd.Wait(); err == nil {
		err = waitErr
	}
	report(name, err)
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <font.ttf>\n", os.Args[0])
		os.Exit(2)
	}
	full("full.pdf", os.Args[1])
	min("min.pdf", os.Args[1])
}
